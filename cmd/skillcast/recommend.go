// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillcast/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank courses per student by content and forecasted demand",
	Long: `Recommend ranks eligible catalog courses for each student profile,
blending content similarity against forecasted market demand with the
configured alpha. Courses missing prerequisites or above the student's
level are excluded before scoring.`,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	in, err := loadInputs(cmd, true, true)
	if err != nil {
		return err
	}

	_, _, fc := computeForecast(in)
	space, matrix := computeMatrix(in)

	ranker := recommend.NewRanker(in.courses, space, matrix, fc, in.cfg.Recommend)
	out := ranker.RankAll(in.profiles)

	printDiagnostics(append(in.diags, out.Diagnostics...))

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out.Recommendations)
	}

	recommend.FormatTable(out.Recommendations, os.Stdout)
	return nil
}

func init() {
	recommendCmd.Flags().String("corpus", "data/postings.csv", "posting corpus CSV")
	recommendCmd.Flags().String("courses", "data/courses.yaml", "course catalog YAML")
	recommendCmd.Flags().String("profiles", "data/profiles.yaml", "student profile batch YAML")
	recommendCmd.Flags().Bool("json", false, "output recommendations as JSON")

	rootCmd.AddCommand(recommendCmd)
}
