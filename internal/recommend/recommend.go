// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend ranks catalog courses per student by blending
// content similarity against forecasted market demand. Hard eligibility
// constraints are applied before any scoring.
// See docs/ARCHITECTURE § Recommendation.
package recommend

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/skillcast/internal/forecast"
	"github.com/pdiddy/skillcast/internal/mapper"
	"github.com/pdiddy/skillcast/internal/vectorspace"
	"github.com/pdiddy/skillcast/pkg/types"
)

// Ranker scores courses against one immutable batch: the shared vector
// space, the skill-course matrix, and the forecast output. A single
// Ranker serves any number of profiles concurrently; it holds no
// mutable state after construction.
type Ranker struct {
	courses       []types.Course
	space         *mapper.Space
	matrix        *mapper.Matrix
	demandBySkill map[string]float64
	cfg           types.RecommendConfig
}

// NewRanker builds a ranker for one batch. Forecasted growth is min-max
// normalized to [0,1] across all skills with a numeric forecast; skills
// without one carry no demand signal.
func NewRanker(courses []types.Course, space *mapper.Space, matrix *mapper.Matrix, fc forecast.Output, cfg types.RecommendConfig) *Ranker {
	return &Ranker{
		courses:       courses,
		space:         space,
		matrix:        matrix,
		demandBySkill: normalizeGrowth(fc),
		cfg:           cfg,
	}
}

// normalizeGrowth maps each forecast skill's growth onto [0,1]. When
// every skill grows at the same rate the signal carries no ordering and
// all skills score a neutral 0.5.
func normalizeGrowth(fc forecast.Output) map[string]float64 {
	var lo, hi float64
	first := true
	for _, r := range fc.Results {
		if !r.HasForecast() {
			continue
		}
		if first || r.Growth < lo {
			lo = r.Growth
		}
		if first || r.Growth > hi {
			hi = r.Growth
		}
		first = false
	}

	demand := make(map[string]float64)
	for _, r := range fc.Results {
		if !r.HasForecast() {
			continue
		}
		if hi == lo {
			demand[r.SkillID] = 0.5
			continue
		}
		demand[r.SkillID] = (r.Growth - lo) / (hi - lo)
	}
	return demand
}

// Rank returns the top-K eligible courses for a profile, score
// descending with ties broken by ascending course ID. Ineligible
// courses (missing prerequisites, level above the profile's maximum)
// are silently excluded before scoring.
func (r *Ranker) Rank(profile types.StudentProfile) []types.Recommendation {
	completed := make(map[string]bool, len(profile.Completed))
	for _, id := range profile.Completed {
		completed[id] = true
	}

	interest := r.space.Vocab.WeightedVector(profile.Interests)

	var recs []types.Recommendation
	for _, c := range r.courses {
		if !eligible(c, completed, profile.MaxLevel) {
			continue
		}
		recs = append(recs, types.Recommendation{
			StudentID: profile.StudentID,
			CourseID:  c.ID,
			Score:     r.score(c, interest),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].CourseID < recs[j].CourseID
	})

	if len(recs) > r.cfg.TopK {
		recs = recs[:r.cfg.TopK]
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}
	return recs
}

// eligible applies the hard constraints: every prerequisite completed
// and course level within the profile's maximum.
func eligible(c types.Course, completed map[string]bool, maxLevel int) bool {
	if c.Level > maxLevel {
		return false
	}
	for _, p := range c.Prerequisites {
		if !completed[p] {
			return false
		}
	}
	return true
}

// score blends content similarity and demand: alpha 1 is pure
// content-based ranking, alpha 0 pure demand-based.
func (r *Ranker) score(c types.Course, interest vectorspace.Vector) float64 {
	alpha := r.cfg.BlendAlpha

	var content float64
	if cv, ok := r.space.CourseVector(c.ID); ok {
		content = vectorspace.Cosine(interest, cv)
	}

	return alpha*content + (1-alpha)*r.demandScore(c.ID)
}

// demandScore is the weighted mean of normalized forecasted growth over
// the course's top-weighted skills. Skills without a numeric forecast
// are skipped; a course touching no forecast skill scores 0.
func (r *Ranker) demandScore(courseID string) float64 {
	var weighted, total float64
	for _, e := range r.matrix.TopSkills(courseID, r.cfg.TopSkills) {
		d, ok := r.demandBySkill[e.SkillID]
		if !ok {
			continue
		}
		weighted += e.Weight * d
		total += e.Weight
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// Output holds a multi-profile ranking batch.
type Output struct {
	Recommendations []types.Recommendation
	Diagnostics     []types.Diagnostic
}

// RankAll ranks every profile concurrently and merges the results in
// profile order. Profiles are independent; a profile with no eligible
// courses yields a diagnostic, not an error.
func (r *Ranker) RankAll(profiles []types.StudentProfile) Output {
	results := make([][]types.Recommendation, len(profiles))
	var wg sync.WaitGroup

	for i, p := range profiles {
		wg.Add(1)
		go func(i int, p types.StudentProfile) {
			defer wg.Done()
			results[i] = r.Rank(p)
		}(i, p)
	}
	wg.Wait()

	var out Output
	for i, recs := range results {
		if len(recs) == 0 {
			out.Diagnostics = append(out.Diagnostics, types.Diagnostic{
				Stage:    "recommend",
				EntityID: profiles[i].StudentID,
				Reason:   "no eligible courses for profile",
			})
			continue
		}
		out.Recommendations = append(out.Recommendations, recs...)
	}
	return out
}

// FormatTable writes recommendations as a human-readable table to w.
func FormatTable(recs []types.Recommendation, w io.Writer) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-16s  %-24s  %s\n", "Rank", "Student", "Course", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 56))
	for _, r := range recs {
		fmt.Fprintf(w, "%-4d  %-16s  %-24s  %.3f\n", r.Rank, r.StudentID, r.CourseID, r.Score)
	}
	fmt.Fprintf(w, "\n%d recommendations\n", len(recs))
}
