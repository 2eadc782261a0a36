// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillcast/internal/coverage"
	"github.com/pdiddy/skillcast/internal/forecast"
	"github.com/pdiddy/skillcast/internal/recommend"
	"github.com/pdiddy/skillcast/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and persist the results",
	Long: `Run executes the full batch over one input snapshot: skill extraction,
demand forecasting, course-skill mapping, per-student recommendation,
and curriculum coverage analysis. Results and diagnostics are saved to
the results store under a fresh run ID and exported for reporting.

Batches are idempotent and side-effect free until the final save: a
failed run can simply be restarted from the same snapshot.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	in, err := loadInputs(cmd, true, true)
	if err != nil {
		return err
	}

	axis, series, fc := computeForecast(in)
	space, matrix := computeMatrix(in)

	ranker := recommend.NewRanker(in.courses, space, matrix, fc, in.cfg.Recommend)
	recs := ranker.RankAll(in.profiles)

	coverageRows := coverage.Analyze(matrix, fc, in.cfg.Coverage)

	diags := in.diags
	diags = append(diags, fc.Diagnostics...)
	diags = append(diags, recs.Diagnostics...)
	printDiagnostics(diags)

	results := store.RunResults{
		Config:            in.cfg,
		DictionaryVersion: in.dict.Version,
		Demand:            forecast.DemandTable(axis, series, fc),
		Matrix:            matrix.Entries(),
		Recommendations:   recs.Recommendations,
		Coverage:          coverageRows,
		Diagnostics:       diags,
	}

	st, err := store.New(in.cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	runID, err := st.SaveRun(ctx, results)
	if err != nil {
		return err
	}

	if err := st.ExportYAML(ctx, runID); err != nil {
		fmt.Fprintf(os.Stderr, "warning: export.yaml write failed: %v\n", err)
	}
	if err := st.ExportJSON(ctx, runID); err != nil {
		fmt.Fprintf(os.Stderr, "warning: export.json write failed: %v\n", err)
	}

	s := forecast.Summarize(fc)
	fmt.Printf("run %s saved\n", runID)
	fmt.Printf("  skills     : %d forecast (%d emerging, %d stable, %d declining), %d insufficient\n",
		s.Emerging+s.Stable+s.Declining, s.Emerging, s.Stable, s.Declining, s.Insufficient)
	fmt.Printf("  matrix     : %d associations\n", len(results.Matrix))
	fmt.Printf("  students   : %d profiles, %d recommendations\n", len(in.profiles), len(recs.Recommendations))
	fmt.Printf("  coverage   : %d skills, %d gaps\n", len(coverageRows), len(coverage.Gaps(coverageRows)))
	fmt.Printf("  diagnostics: %d\n", len(diags))
	return nil
}

func init() {
	runCmd.Flags().String("corpus", "data/postings.csv", "posting corpus CSV")
	runCmd.Flags().String("courses", "data/courses.yaml", "course catalog YAML")
	runCmd.Flags().String("profiles", "data/profiles.yaml", "student profile batch YAML")

	rootCmd.AddCommand(runCmd)
}
