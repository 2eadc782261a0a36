// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillcast/pkg/types"
)

// Export is the serialized form of one stored run: the four output
// tables plus diagnostics, ready for downstream reporting.
type Export struct {
	Run             RunInfo                `json:"run" yaml:"run"`
	Demand          []types.DemandRow      `json:"demand" yaml:"demand"`
	Matrix          []types.MatrixEntry    `json:"matrix" yaml:"matrix"`
	Recommendations []types.Recommendation `json:"recommendations" yaml:"recommendations"`
	Coverage        []types.CoverageRow    `json:"coverage" yaml:"coverage"`
	Diagnostics     []types.Diagnostic     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ExportYAML writes a run to resultsDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, runID string) error {
	exp, err := s.buildExport(ctx, runID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(exp)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.resultsDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes a run to resultsDir/export.json.
func (s *Store) ExportJSON(ctx context.Context, runID string) error {
	exp, err := s.buildExport(ctx, runID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.resultsDir, "export.json"), data, 0o644)
}

func (s *Store) buildExport(ctx context.Context, runID string) (*Export, error) {
	var createdAt string
	info := RunInfo{ID: runID}
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, dictionary_version FROM runs WHERE id = ?`, runID,
	).Scan(&createdAt, &info.DictionaryVersion)
	if err != nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	info.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	results, err := s.LoadRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	return &Export{
		Run:             info,
		Demand:          results.Demand,
		Matrix:          results.Matrix,
		Recommendations: results.Recommendations,
		Coverage:        results.Coverage,
		Diagnostics:     results.Diagnostics,
	}, nil
}
