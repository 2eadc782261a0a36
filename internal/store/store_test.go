// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillcast/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(types.StoreConfig{ResultsDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func sampleResults() RunResults {
	forecast := 29.75
	growth := 0.4875
	return RunResults{
		Config:            types.DefaultConfig(),
		DictionaryVersion: "2026-03",
		Demand: []types.DemandRow{
			{SkillID: "python", Period: 0, PeriodStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				Observed: 5, Trend: types.TrendEmerging},
			{SkillID: "python", Period: 1, PeriodStart: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
				Observed: 8, Growth: &growth, Trend: types.TrendEmerging},
			{SkillID: "python", Period: 2, PeriodStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				Forecast: &forecast, Trend: types.TrendEmerging},
		},
		Matrix: []types.MatrixEntry{
			{SkillID: "python", CourseID: "py101", Weight: 1.0},
			{SkillID: "python", CourseID: "py201", Weight: 0.6},
		},
		Recommendations: []types.Recommendation{
			{StudentID: "alice", CourseID: "py201", Score: 0.83, Rank: 1},
			{StudentID: "alice", CourseID: "py101", Score: 0.41, Rank: 2},
		},
		Coverage: []types.CoverageRow{
			{SkillID: "python", DemandRank: 1, CoverageScore: 1.0},
			{SkillID: "rust", DemandRank: 2, CoverageScore: 0, Gap: true},
		},
		Diagnostics: []types.Diagnostic{
			{Stage: "corpus", EntityID: "line 12", Reason: "missing url"},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, sampleResults())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	got, err := s.LoadRun(ctx, runID)
	require.NoError(t, err)

	want := sampleResults()
	assert.Equal(t, want.DictionaryVersion, got.DictionaryVersion)
	assert.Equal(t, want.Config, got.Config)
	assert.Equal(t, want.Matrix, got.Matrix)
	assert.Equal(t, want.Recommendations, got.Recommendations)
	assert.Equal(t, want.Coverage, got.Coverage)
	assert.Equal(t, want.Diagnostics, got.Diagnostics)

	require.Len(t, got.Demand, 3)
	assert.Equal(t, want.Demand[0].SkillID, got.Demand[0].SkillID)
	assert.Nil(t, got.Demand[0].Forecast)
	assert.Nil(t, got.Demand[0].Growth)
	require.NotNil(t, got.Demand[1].Growth)
	assert.InDelta(t, 0.4875, *got.Demand[1].Growth, 1e-9)
	require.NotNil(t, got.Demand[2].Forecast)
	assert.InDelta(t, 29.75, *got.Demand[2].Forecast, 1e-9)
	assert.True(t, got.Demand[0].PeriodStart.Equal(want.Demand[0].PeriodStart))
}

func TestLoadRunNotFound(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.LoadRun(context.Background(), "no-such-run")
	assert.ErrorContains(t, err, "not found")
}

func TestLatestRun(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	assert.Error(t, err, "empty store must report no runs")

	first, err := s.SaveRun(ctx, sampleResults())
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, sampleResults())
	require.NoError(t, err)

	info, err := s.LatestRun(ctx)
	require.NoError(t, err)
	// Both runs may share a timestamp at second resolution; the ID
	// ordering only has to return one of this batch.
	assert.Contains(t, []string{first, second}, info.ID)
	assert.Equal(t, "2026-03", info.DictionaryVersion)
	assert.False(t, info.CreatedAt.IsZero())
}

func TestSaveRunDistinctIDs(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	a, err := s.SaveRun(ctx, sampleResults())
	require.NoError(t, err)
	b, err := s.SaveRun(ctx, sampleResults())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSaveEmptyRun(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, RunResults{Config: types.DefaultConfig()})
	require.NoError(t, err)

	got, err := s.LoadRun(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, got.Demand)
	assert.Empty(t, got.Matrix)
	assert.Empty(t, got.Recommendations)
	assert.Empty(t, got.Coverage)
	assert.Empty(t, got.Diagnostics)
}

func TestExportYAMLAndJSON(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, sampleResults())
	require.NoError(t, err)

	require.NoError(t, s.ExportYAML(ctx, runID))
	require.NoError(t, s.ExportJSON(ctx, runID))

	yamlData, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	require.NoError(t, err)
	var fromYAML Export
	require.NoError(t, yaml.Unmarshal(yamlData, &fromYAML))
	assert.Equal(t, runID, fromYAML.Run.ID)
	assert.Len(t, fromYAML.Matrix, 2)

	jsonData, err := os.ReadFile(filepath.Join(dir, "export.json"))
	require.NoError(t, err)
	var fromJSON Export
	require.NoError(t, json.Unmarshal(jsonData, &fromJSON))
	assert.Equal(t, fromYAML.Run.ID, fromJSON.Run.ID)
	assert.Equal(t, fromYAML.Coverage, fromJSON.Coverage)
}

func TestExportUnknownRun(t *testing.T) {
	s, _ := testStore(t)
	assert.Error(t, s.ExportYAML(context.Background(), "ghost"))
}
