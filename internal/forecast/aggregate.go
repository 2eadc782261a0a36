// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package forecast builds per-skill demand time series from skill
// observations and projects them forward with a polynomial trend model.
// All computation is batch-mode over an immutable snapshot: series are
// rebuilt whole, never patched. See docs/ARCHITECTURE § Forecasting.
package forecast

import (
	"sort"
	"time"

	"github.com/pdiddy/skillcast/pkg/types"
)

// Aggregate groups observations into fixed-width buckets on a single
// batch-wide axis spanning the earliest to the latest observation.
// Counts are distinct posting records per skill per bucket: repeating a
// skill inside one posting counts once, so keyword stuffing in a single
// ad cannot inflate demand.
func Aggregate(obs []types.SkillObservation, width time.Duration) (types.TimeAxis, []types.SkillSeries) {
	if len(obs) == 0 || width <= 0 {
		return types.TimeAxis{Width: width}, nil
	}

	start, end := obs[0].Timestamp, obs[0].Timestamp
	for _, o := range obs[1:] {
		if o.Timestamp.Before(start) {
			start = o.Timestamp
		}
		if o.Timestamp.After(end) {
			end = o.Timestamp
		}
	}

	axis := types.TimeAxis{Start: start, Width: width}
	axis.Buckets = axis.Bucket(end) + 1

	// skill → bucket → distinct record IDs.
	records := make(map[string]map[int]map[string]bool)
	for _, o := range obs {
		b := axis.Bucket(o.Timestamp)
		byBucket, ok := records[o.SkillID]
		if !ok {
			byBucket = make(map[int]map[string]bool)
			records[o.SkillID] = byBucket
		}
		ids, ok := byBucket[b]
		if !ok {
			ids = make(map[string]bool)
			byBucket[b] = ids
		}
		ids[o.RecordID] = true
	}

	skills := make([]string, 0, len(records))
	for id := range records {
		skills = append(skills, id)
	}
	sort.Strings(skills)

	series := make([]types.SkillSeries, 0, len(skills))
	for _, id := range skills {
		counts := make([]int, axis.Buckets)
		for b, ids := range records[id] {
			counts[b] = len(ids)
		}
		series = append(series, types.SkillSeries{SkillID: id, Counts: counts})
	}

	return axis, series
}

// GrowthRates returns the bucket-to-bucket growth rate for a count
// series. The first bucket has no rate. A bucket whose predecessor is
// zero has no numeric rate either: a skill appearing from nothing is
// "new", not infinitely growing.
func GrowthRates(counts []int) []*float64 {
	rates := make([]*float64, len(counts))
	for t := 1; t < len(counts); t++ {
		prev := counts[t-1]
		if prev <= 0 {
			continue
		}
		r := float64(counts[t]-prev) / float64(prev)
		rates[t] = &r
	}
	return rates
}
