// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TimeAxis is the shared bucket grid for one batch. Every skill series in
// a batch is aligned to the same axis, so bucket i means the same calendar
// interval for all skills. See docs/ARCHITECTURE § Forecasting.
type TimeAxis struct {
	// Start is the inclusive start of bucket 0.
	Start time.Time `json:"start" yaml:"start"`

	// Width is the bucket width (identical across all skills in a batch).
	Width time.Duration `json:"width" yaml:"width"`

	// Buckets is the number of observed buckets on the axis.
	Buckets int `json:"buckets" yaml:"buckets"`
}

// PeriodStart returns the start time of bucket i. Indices past the
// observed range address forecast buckets.
func (a TimeAxis) PeriodStart(i int) time.Time {
	return a.Start.Add(time.Duration(i) * a.Width)
}

// Bucket returns the axis bucket index for t, which may be negative or
// past Buckets if t lies outside the observed range.
func (a TimeAxis) Bucket(t time.Time) int {
	if a.Width <= 0 {
		return 0
	}
	d := t.Sub(a.Start)
	if d < 0 {
		// Integer division truncates toward zero; times before Start
		// must land in earlier buckets.
		return int((d - a.Width + time.Nanosecond) / a.Width)
	}
	return int(d / a.Width)
}

// SkillSeries is one skill's demand counts on the batch axis. Counts[i]
// is the number of distinct postings mentioning the skill in bucket i.
// Series are rebuilt whole per batch, never patched.
type SkillSeries struct {
	SkillID string `json:"skill_id" yaml:"skill_id"`
	Counts  []int  `json:"counts" yaml:"counts"`
}

// Total returns the number of postings across all buckets.
func (s SkillSeries) Total() int {
	sum := 0
	for _, c := range s.Counts {
		sum += c
	}
	return sum
}

// ObservedBuckets returns the number of buckets with at least one posting.
func (s SkillSeries) ObservedBuckets() int {
	n := 0
	for _, c := range s.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// TrendLabel classifies a skill's forecasted trajectory.
type TrendLabel string

const (
	TrendEmerging     TrendLabel = "emerging"
	TrendStable       TrendLabel = "stable"
	TrendDeclining    TrendLabel = "declining"
	TrendInsufficient TrendLabel = "insufficient_data"
)

// ConfidenceInterval bounds the forecast, derived from the residual
// variance of the trend fit. Lower and Upper are per forecast bucket.
type ConfidenceInterval struct {
	Lower []float64 `json:"lower" yaml:"lower"`
	Upper []float64 `json:"upper" yaml:"upper"`
}

// ForecastResult is the derived forecast for one skill. Recomputed per
// batch; never edited in place.
type ForecastResult struct {
	// SkillID is the canonical skill identifier.
	SkillID string `json:"skill_id" yaml:"skill_id"`

	// Horizon is the number of forecast buckets requested.
	Horizon int `json:"horizon" yaml:"horizon"`

	// Predicted holds one value per forecast bucket, continuing the batch
	// axis directly after the last observed bucket. Nil when Trend is
	// insufficient_data.
	Predicted []float64 `json:"predicted,omitempty" yaml:"predicted,omitempty"`

	// Interval bounds Predicted. Nil when Predicted is nil.
	Interval *ConfidenceInterval `json:"interval,omitempty" yaml:"interval,omitempty"`

	// Trend is the categorical classification of the trajectory.
	Trend TrendLabel `json:"trend" yaml:"trend"`

	// Growth is the relative forecast growth used for classification and
	// by the recommender and coverage analyzer: mean predicted demand
	// versus the last smoothed observation. Only meaningful when a
	// numeric forecast exists.
	Growth float64 `json:"growth" yaml:"growth"`
}

// HasForecast reports whether the skill received a numeric forecast.
func (r ForecastResult) HasForecast() bool {
	return r.Trend != TrendInsufficient
}

// DemandRow is one row of the skill demand table handed to downstream
// reporting: one skill in one period, observed or forecast.
// See docs/ARCHITECTURE § Outputs.
type DemandRow struct {
	SkillID     string     `json:"skill_id" yaml:"skill_id"`
	Period      int        `json:"period" yaml:"period"`
	PeriodStart time.Time  `json:"period_start" yaml:"period_start"`
	Observed    int        `json:"observed" yaml:"observed"`
	Forecast    *float64   `json:"forecast,omitempty" yaml:"forecast,omitempty"`
	Growth      *float64   `json:"growth,omitempty" yaml:"growth,omitempty"`
	Trend       TrendLabel `json:"trend" yaml:"trend"`
}
