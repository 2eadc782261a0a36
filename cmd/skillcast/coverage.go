// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillcast/internal/coverage"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report curriculum coverage against forecasted demand",
	Long: `Coverage ranks skills by forecasted growth, scores how well the course
catalog covers each one, and flags high-demand skills with low coverage
as curriculum gaps. The full per-skill report is emitted so thresholds
can be recomputed downstream.`,
	RunE: runCoverage,
}

func runCoverage(cmd *cobra.Command, args []string) error {
	in, err := loadInputs(cmd, true, false)
	if err != nil {
		return err
	}

	_, _, fc := computeForecast(in)
	_, matrix := computeMatrix(in)

	rows := coverage.Analyze(matrix, fc, in.cfg.Coverage)
	printDiagnostics(append(in.diags, fc.Diagnostics...))

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	coverage.FormatTable(rows, os.Stdout)
	return nil
}

func init() {
	coverageCmd.Flags().String("corpus", "data/postings.csv", "posting corpus CSV")
	coverageCmd.Flags().String("courses", "data/courses.yaml", "course catalog YAML")
	coverageCmd.Flags().Bool("json", false, "output the coverage report as JSON")

	rootCmd.AddCommand(coverageCmd)
}
