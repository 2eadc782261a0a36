// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"math"
	"testing"

	"github.com/pdiddy/skillcast/internal/forecast"
	"github.com/pdiddy/skillcast/internal/mapper"
	"github.com/pdiddy/skillcast/internal/skill"
	"github.com/pdiddy/skillcast/pkg/types"
)

func testDict(t *testing.T) *skill.Dictionary {
	t.Helper()
	d := &skill.Dictionary{
		Skills: []skill.Entry{
			{ID: "python", Name: "Python"},
			{ID: "sql", Name: "SQL"},
			{ID: "kubernetes", Name: "Kubernetes"},
		},
	}
	if err := d.Compile(); err != nil {
		t.Fatal(err)
	}
	return d
}

func testCourses() []types.Course {
	return []types.Course{
		{ID: "intro-python", ContentText: "python programming basics scripting", Level: 1},
		{ID: "advanced-sql", ContentText: "sql window functions query tuning",
			Prerequisites: []string{"intro-db"}, Level: 3},
		{ID: "intro-db", ContentText: "sql relational databases basics", Level: 1},
		{ID: "k8s-ops", ContentText: "kubernetes cluster operations helm", Level: 2},
	}
}

func testForecast() forecast.Output {
	return forecast.Output{Results: []types.ForecastResult{
		{SkillID: "kubernetes", Trend: types.TrendEmerging, Growth: 0.8, Predicted: []float64{10}},
		{SkillID: "python", Trend: types.TrendStable, Growth: 0.05, Predicted: []float64{20}},
		{SkillID: "sql", Trend: types.TrendDeclining, Growth: -0.2, Predicted: []float64{5}},
	}}
}

func testRanker(t *testing.T, cfg types.RecommendConfig) *Ranker {
	t.Helper()
	courses := testCourses()
	space := mapper.BuildSpace(courses, nil)
	matrix := mapper.Build(space, courses, testDict(t), nil, types.MapperConfig{})
	return NewRanker(courses, space, matrix, testForecast(), cfg)
}

func defaultCfg() types.RecommendConfig {
	return types.RecommendConfig{TopK: 10, BlendAlpha: 0.7, TopSkills: 5}
}

func profile(completed []string, interests map[string]float64, maxLevel int) types.StudentProfile {
	return types.StudentProfile{
		StudentID: "s1",
		Completed: completed,
		Interests: interests,
		MaxLevel:  maxLevel,
	}
}

func TestRankExcludesMissingPrerequisites(t *testing.T) {
	r := testRanker(t, defaultCfg())
	p := profile(nil, map[string]float64{"sql": 1}, 5)

	for _, rec := range r.Rank(p) {
		if rec.CourseID == "advanced-sql" {
			t.Error("advanced-sql recommended without its prerequisite")
		}
	}
}

func TestRankPrerequisiteSatisfied(t *testing.T) {
	r := testRanker(t, defaultCfg())
	p := profile([]string{"intro-db"}, map[string]float64{"sql": 1}, 5)

	found := false
	for _, rec := range r.Rank(p) {
		if rec.CourseID == "advanced-sql" {
			found = true
		}
	}
	if !found {
		t.Error("advanced-sql missing despite satisfied prerequisite")
	}
}

func TestRankExcludesAboveMaxLevel(t *testing.T) {
	r := testRanker(t, defaultCfg())
	p := profile([]string{"intro-db"}, map[string]float64{"sql": 1}, 1)

	for _, rec := range r.Rank(p) {
		if rec.CourseID == "advanced-sql" || rec.CourseID == "k8s-ops" {
			t.Errorf("%s recommended above max level", rec.CourseID)
		}
	}
}

func TestRankEligibilityHoldsForAllAlphas(t *testing.T) {
	// The demand term must never resurrect an ineligible course.
	for _, alpha := range []float64{0, 0.3, 0.7, 1} {
		cfg := defaultCfg()
		cfg.BlendAlpha = alpha
		r := testRanker(t, cfg)
		p := profile(nil, map[string]float64{"kubernetes": 1}, 1)

		for _, rec := range r.Rank(p) {
			if rec.CourseID != "intro-python" && rec.CourseID != "intro-db" {
				t.Errorf("alpha %v: ineligible course %s recommended", alpha, rec.CourseID)
			}
		}
	}
}

func TestRankOrderingAndRanks(t *testing.T) {
	r := testRanker(t, defaultCfg())
	p := profile([]string{"intro-db"}, map[string]float64{"python": 1, "sql": 0.5}, 5)

	recs := r.Rank(p)
	if len(recs) == 0 {
		t.Fatal("no recommendations")
	}
	for i, rec := range recs {
		if rec.Rank != i+1 {
			t.Errorf("Rank = %d at index %d", rec.Rank, i)
		}
		if rec.StudentID != "s1" {
			t.Errorf("StudentID = %q", rec.StudentID)
		}
		if i > 0 && recs[i-1].Score < rec.Score {
			t.Errorf("scores not non-increasing at %d: %v < %v", i, recs[i-1].Score, rec.Score)
		}
	}
}

func TestRankTopKLimit(t *testing.T) {
	cfg := defaultCfg()
	cfg.TopK = 2
	r := testRanker(t, cfg)
	p := profile([]string{"intro-db"}, map[string]float64{"python": 1, "sql": 1}, 5)

	if recs := r.Rank(p); len(recs) > 2 {
		t.Errorf("len(recs) = %d, want <= 2", len(recs))
	}
}

func TestRankTieBreakByCourseID(t *testing.T) {
	// With no interests and pure content weighting, all eligible scores
	// are equal; order must fall back to ascending course ID.
	cfg := defaultCfg()
	cfg.BlendAlpha = 1
	r := testRanker(t, cfg)
	p := profile([]string{"intro-db"}, nil, 5)

	recs := r.Rank(p)
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Score == recs[i].Score && recs[i-1].CourseID >= recs[i].CourseID {
			t.Errorf("tie not broken by course ID: %q before %q",
				recs[i-1].CourseID, recs[i].CourseID)
		}
	}
}

func TestRankPureDemand(t *testing.T) {
	cfg := defaultCfg()
	cfg.BlendAlpha = 0
	r := testRanker(t, cfg)
	p := profile([]string{"intro-db"}, nil, 5)

	recs := r.Rank(p)
	if len(recs) == 0 {
		t.Fatal("no recommendations")
	}
	// kubernetes has the strongest forecast growth, so the kubernetes
	// course must outrank the declining-sql ones.
	if recs[0].CourseID != "k8s-ops" {
		t.Errorf("top course = %q, want k8s-ops", recs[0].CourseID)
	}
}

func TestNormalizeGrowth(t *testing.T) {
	demand := normalizeGrowth(testForecast())

	if got := demand["kubernetes"]; got != 1 {
		t.Errorf("kubernetes = %v, want 1", got)
	}
	if got := demand["sql"]; got != 0 {
		t.Errorf("sql = %v, want 0", got)
	}
	if got := demand["python"]; got <= 0 || got >= 1 {
		t.Errorf("python = %v, want in (0,1)", got)
	}
}

func TestNormalizeGrowthDegenerate(t *testing.T) {
	fc := forecast.Output{Results: []types.ForecastResult{
		{SkillID: "a", Trend: types.TrendStable, Growth: 0.05},
		{SkillID: "b", Trend: types.TrendStable, Growth: 0.05},
		{SkillID: "c", Trend: types.TrendInsufficient},
	}}
	demand := normalizeGrowth(fc)

	if math.Abs(demand["a"]-0.5) > 1e-12 || math.Abs(demand["b"]-0.5) > 1e-12 {
		t.Errorf("equal growth should normalize to 0.5, got %v", demand)
	}
	if _, ok := demand["c"]; ok {
		t.Error("insufficient skill must carry no demand signal")
	}
}

func TestRankAll(t *testing.T) {
	r := testRanker(t, defaultCfg())
	profiles := []types.StudentProfile{
		{StudentID: "alice", Interests: map[string]float64{"python": 1}, MaxLevel: 5},
		{StudentID: "bob", MaxLevel: 0}, // nothing eligible at level 0
	}

	out := r.RankAll(profiles)
	if len(out.Recommendations) == 0 {
		t.Fatal("no recommendations for alice")
	}
	for _, rec := range out.Recommendations {
		if rec.StudentID != "alice" {
			t.Errorf("unexpected student %q", rec.StudentID)
		}
	}

	if len(out.Diagnostics) != 1 {
		t.Fatalf("len(Diagnostics) = %d, want 1", len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Stage != "recommend" || d.EntityID != "bob" {
		t.Errorf("diagnostic = %+v", d)
	}
}
