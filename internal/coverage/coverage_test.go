// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coverage

import (
	"strings"
	"testing"

	"github.com/pdiddy/skillcast/internal/forecast"
	"github.com/pdiddy/skillcast/internal/mapper"
	"github.com/pdiddy/skillcast/internal/skill"
	"github.com/pdiddy/skillcast/pkg/types"
)

// buildMatrix assembles a matrix where rust has no covering course and
// sql is fully covered.
func buildMatrix(t *testing.T) *mapper.Matrix {
	t.Helper()
	dict := &skill.Dictionary{
		Skills: []skill.Entry{
			{ID: "sql", Name: "SQL"},
			{ID: "python", Name: "Python"},
			{ID: "rust", Name: "Rust"},
		},
	}
	if err := dict.Compile(); err != nil {
		t.Fatal(err)
	}
	courses := []types.Course{
		{ID: "db101", ContentText: "sql relational databases"},
		{ID: "py101", ContentText: "python scripting"},
	}
	space := mapper.BuildSpace(courses, nil)
	return mapper.Build(space, courses, dict, nil, types.MapperConfig{})
}

func testForecast() forecast.Output {
	return forecast.Output{Results: []types.ForecastResult{
		{SkillID: "rust", Trend: types.TrendEmerging, Growth: 0.9, Predicted: []float64{8}},
		{SkillID: "python", Trend: types.TrendStable, Growth: 0.02, Predicted: []float64{30}},
		{SkillID: "sql", Trend: types.TrendEmerging, Growth: 0.5, Predicted: []float64{40}},
		{SkillID: "cobol", Trend: types.TrendInsufficient},
	}}
}

func testCfg() types.CoverageConfig {
	return types.CoverageConfig{
		TopDemandFraction:    0.5,
		LowCoverageThreshold: 0.2,
		Aggregate:            types.CoverageMax,
	}
}

func TestAnalyzeRanking(t *testing.T) {
	rows := Analyze(buildMatrix(t), testForecast(), testCfg())

	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3 (insufficient skill omitted)", len(rows))
	}
	wantOrder := []string{"rust", "sql", "python"}
	for i, want := range wantOrder {
		if rows[i].SkillID != want {
			t.Errorf("rows[%d] = %q, want %q", i, rows[i].SkillID, want)
		}
		if rows[i].DemandRank != i+1 {
			t.Errorf("rows[%d].DemandRank = %d, want %d", i, rows[i].DemandRank, i+1)
		}
	}
}

func TestAnalyzeFlagsGap(t *testing.T) {
	rows := Analyze(buildMatrix(t), testForecast(), testCfg())

	// rust: top demand, zero coverage → gap. sql: top demand but fully
	// covered → no gap. python: low coverage threshold does not matter
	// outside the top fraction.
	byID := make(map[string]types.CoverageRow)
	for _, r := range rows {
		byID[r.SkillID] = r
	}

	if !byID["rust"].Gap {
		t.Error("rust should be flagged as a gap")
	}
	if byID["rust"].CoverageScore != 0 {
		t.Errorf("rust coverage = %v, want 0", byID["rust"].CoverageScore)
	}
	if byID["sql"].Gap {
		t.Error("well-covered sql must not be flagged")
	}
	if byID["python"].Gap {
		t.Error("python is outside the top demand fraction")
	}
}

func TestAnalyzeHighCoverageNeverFlagged(t *testing.T) {
	cfg := testCfg()
	cfg.TopDemandFraction = 1.0 // every skill is top demand

	for _, r := range Analyze(buildMatrix(t), testForecast(), cfg) {
		if r.CoverageScore >= cfg.LowCoverageThreshold && r.Gap {
			t.Errorf("%s flagged despite coverage %v", r.SkillID, r.CoverageScore)
		}
	}
}

func TestAnalyzeTieBreakBySkillID(t *testing.T) {
	fc := forecast.Output{Results: []types.ForecastResult{
		{SkillID: "zeta", Trend: types.TrendStable, Growth: 0.3, Predicted: []float64{1}},
		{SkillID: "alpha", Trend: types.TrendStable, Growth: 0.3, Predicted: []float64{1}},
	}}
	rows := Analyze(buildMatrix(t), fc, testCfg())

	if rows[0].SkillID != "alpha" || rows[1].SkillID != "zeta" {
		t.Errorf("tie order = %q, %q, want alpha, zeta", rows[0].SkillID, rows[1].SkillID)
	}
}

func TestAnalyzeEmptyForecast(t *testing.T) {
	rows := Analyze(buildMatrix(t), forecast.Output{}, testCfg())
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func TestGaps(t *testing.T) {
	rows := []types.CoverageRow{
		{SkillID: "a", Gap: true},
		{SkillID: "b"},
		{SkillID: "c", Gap: true},
	}
	gaps := Gaps(rows)
	if len(gaps) != 2 || gaps[0].SkillID != "a" || gaps[1].SkillID != "c" {
		t.Errorf("Gaps = %+v", gaps)
	}
}

func TestFormatTable(t *testing.T) {
	var b strings.Builder
	FormatTable([]types.CoverageRow{
		{SkillID: "rust", DemandRank: 1, CoverageScore: 0, Gap: true},
		{SkillID: "sql", DemandRank: 2, CoverageScore: 1},
	}, &b)

	out := b.String()
	if !strings.Contains(out, "GAP") {
		t.Error("output missing GAP marker")
	}
	if !strings.Contains(out, "2 skills, 1 curriculum gaps") {
		t.Errorf("output missing summary:\n%s", out)
	}
}
