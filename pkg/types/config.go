// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// ExtractConfig holds settings for the skill extraction stage.
type ExtractConfig struct {
	// DictionaryPath is the YAML skill dictionary file.
	DictionaryPath string `json:"dictionary_path" yaml:"dictionary_path"`

	// ContextWindow is the number of tokens captured on each side of a
	// skill match for the mapper's pseudo-documents (default 10).
	ContextWindow int `json:"context_window" yaml:"context_window"`
}

// ForecastConfig holds settings for aggregation and trend forecasting.
type ForecastConfig struct {
	// BucketWidth is the demand bucket width (e.g. 168h weekly, 720h monthly).
	BucketWidth time.Duration `json:"bucket_width" yaml:"bucket_width"`

	// SmoothingWindow is the trailing moving-average window applied
	// before trend fitting. 1 disables smoothing.
	SmoothingWindow int `json:"smoothing_window" yaml:"smoothing_window"`

	// Horizon is the number of future buckets to forecast.
	Horizon int `json:"horizon" yaml:"horizon"`

	// MinHistoryBuckets is the minimum number of observed buckets a
	// skill needs for a numeric forecast (default 3).
	MinHistoryBuckets int `json:"min_history_buckets" yaml:"min_history_buckets"`

	// TrendDegree is the polynomial degree of the trend model: 1 for a
	// straight line, 2 for a low-order curve (default 2).
	TrendDegree int `json:"trend_degree" yaml:"trend_degree"`

	// EmergingThreshold is the relative forecast growth above which a
	// skill is labeled emerging.
	EmergingThreshold float64 `json:"emerging_threshold" yaml:"emerging_threshold"`

	// DecliningThreshold is the relative forecast growth below which a
	// skill is labeled declining. Must be negative.
	DecliningThreshold float64 `json:"declining_threshold" yaml:"declining_threshold"`
}

// RowNorm selects how matrix rows are rescaled per skill.
type RowNorm string

const (
	// NormMax divides a skill's weights by the row maximum, so the best
	// course scores 1.0.
	NormMax RowNorm = "max"

	// NormSum divides by the row sum, so a skill's weights total 1.0.
	NormSum RowNorm = "sum"
)

// MapperConfig holds settings for the course-skill mapper.
type MapperConfig struct {
	// RowNorm selects the row normalization: max or sum (default max).
	RowNorm RowNorm `json:"row_norm" yaml:"row_norm"`
}

// RecommendConfig holds settings for demand-aware ranking.
type RecommendConfig struct {
	// TopK is the number of courses returned per student.
	TopK int `json:"top_k" yaml:"top_k"`

	// BlendAlpha weighs content similarity against forecasted demand:
	// 1 is pure content-based ranking, 0 pure demand-based.
	BlendAlpha float64 `json:"blend_alpha" yaml:"blend_alpha"`

	// TopSkills is the number of top-weighted skills per course used for
	// the demand score (default 5).
	TopSkills int `json:"top_skills" yaml:"top_skills"`
}

// CoverageAggregate selects how a skill's coverage score is derived from
// its matrix row.
type CoverageAggregate string

const (
	CoverageMax  CoverageAggregate = "max"
	CoverageMean CoverageAggregate = "mean"
)

// CoverageConfig holds settings for the curriculum coverage analyzer.
type CoverageConfig struct {
	// TopDemandFraction is the fraction of skills (by demand rank)
	// considered high-demand when flagging gaps (default 0.1).
	TopDemandFraction float64 `json:"top_demand_fraction" yaml:"top_demand_fraction"`

	// LowCoverageThreshold is the coverage score below which a
	// high-demand skill is flagged as a gap.
	LowCoverageThreshold float64 `json:"low_coverage_threshold" yaml:"low_coverage_threshold"`

	// Aggregate selects max or mean row aggregation (default max).
	Aggregate CoverageAggregate `json:"aggregate" yaml:"aggregate"`
}

// StoreConfig holds settings for the results store.
type StoreConfig struct {
	// ResultsDir is the directory holding results.db and exports.
	ResultsDir string `json:"results_dir" yaml:"results_dir"`
}

// PipelineConfig groups all stage configurations for a batch run.
type PipelineConfig struct {
	Extract   ExtractConfig   `json:"extract" yaml:"extract"`
	Forecast  ForecastConfig  `json:"forecast" yaml:"forecast"`
	Mapper    MapperConfig    `json:"mapper" yaml:"mapper"`
	Recommend RecommendConfig `json:"recommend" yaml:"recommend"`
	Coverage  CoverageConfig  `json:"coverage" yaml:"coverage"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}

// DefaultConfig returns the tunable defaults. Callers override from the
// config file before validation.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Extract: ExtractConfig{
			DictionaryPath: "data/skills.yaml",
			ContextWindow:  10,
		},
		Forecast: ForecastConfig{
			BucketWidth:        30 * 24 * time.Hour,
			SmoothingWindow:    3,
			Horizon:            2,
			MinHistoryBuckets:  3,
			TrendDegree:        2,
			EmergingThreshold:  0.10,
			DecliningThreshold: -0.10,
		},
		Mapper: MapperConfig{
			RowNorm: NormMax,
		},
		Recommend: RecommendConfig{
			TopK:       10,
			BlendAlpha: 0.7,
			TopSkills:  5,
		},
		Coverage: CoverageConfig{
			TopDemandFraction:    0.10,
			LowCoverageThreshold: 0.20,
			Aggregate:            CoverageMax,
		},
		Store: StoreConfig{
			ResultsDir: "results",
		},
	}
}

// Validate checks the configuration before any computation runs.
// Configuration errors are the only fatal error class: a batch never
// starts with an invalid config, and never aborts for less.
func (c PipelineConfig) Validate() error {
	var problems []string

	if c.Extract.ContextWindow < 0 {
		problems = append(problems, fmt.Sprintf("extract.context_window must be >= 0, got %d", c.Extract.ContextWindow))
	}
	if c.Forecast.BucketWidth <= 0 {
		problems = append(problems, fmt.Sprintf("forecast.bucket_width must be positive, got %s", c.Forecast.BucketWidth))
	}
	if c.Forecast.SmoothingWindow < 1 {
		problems = append(problems, fmt.Sprintf("forecast.smoothing_window must be >= 1, got %d", c.Forecast.SmoothingWindow))
	}
	if c.Forecast.Horizon <= 0 {
		problems = append(problems, fmt.Sprintf("forecast.horizon must be positive, got %d", c.Forecast.Horizon))
	}
	if c.Forecast.MinHistoryBuckets < 1 {
		problems = append(problems, fmt.Sprintf("forecast.min_history_buckets must be >= 1, got %d", c.Forecast.MinHistoryBuckets))
	}
	if c.Forecast.TrendDegree < 1 || c.Forecast.TrendDegree > 3 {
		problems = append(problems, fmt.Sprintf("forecast.trend_degree must be 1, 2, or 3, got %d", c.Forecast.TrendDegree))
	}
	if c.Forecast.EmergingThreshold <= 0 {
		problems = append(problems, fmt.Sprintf("forecast.emerging_threshold must be positive, got %g", c.Forecast.EmergingThreshold))
	}
	if c.Forecast.DecliningThreshold >= 0 {
		problems = append(problems, fmt.Sprintf("forecast.declining_threshold must be negative, got %g", c.Forecast.DecliningThreshold))
	}
	if c.Mapper.RowNorm != NormMax && c.Mapper.RowNorm != NormSum {
		problems = append(problems, fmt.Sprintf("mapper.row_norm must be %q or %q, got %q", NormMax, NormSum, c.Mapper.RowNorm))
	}
	if c.Recommend.TopK <= 0 {
		problems = append(problems, fmt.Sprintf("recommend.top_k must be positive, got %d", c.Recommend.TopK))
	}
	if c.Recommend.BlendAlpha < 0 || c.Recommend.BlendAlpha > 1 {
		problems = append(problems, fmt.Sprintf("recommend.blend_alpha must be in [0,1], got %g", c.Recommend.BlendAlpha))
	}
	if c.Recommend.TopSkills <= 0 {
		problems = append(problems, fmt.Sprintf("recommend.top_skills must be positive, got %d", c.Recommend.TopSkills))
	}
	if c.Coverage.TopDemandFraction <= 0 || c.Coverage.TopDemandFraction > 1 {
		problems = append(problems, fmt.Sprintf("coverage.top_demand_fraction must be in (0,1], got %g", c.Coverage.TopDemandFraction))
	}
	if c.Coverage.LowCoverageThreshold < 0 || c.Coverage.LowCoverageThreshold > 1 {
		problems = append(problems, fmt.Sprintf("coverage.low_coverage_threshold must be in [0,1], got %g", c.Coverage.LowCoverageThreshold))
	}
	if c.Coverage.Aggregate != CoverageMax && c.Coverage.Aggregate != CoverageMean {
		problems = append(problems, fmt.Sprintf("coverage.aggregate must be %q or %q, got %q", CoverageMax, CoverageMean, c.Coverage.Aggregate))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
