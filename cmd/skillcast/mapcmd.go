// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Build the skill-course association matrix",
	Long: `Map builds a term-weighted vector for every course and a pseudo-document
for every skill (canonical name, patterns, and corpus contexts), then
scores each pair by cosine similarity in a vector space shared across
the full course and posting corpus. Rows are normalized per skill.`,
	RunE: runMap,
}

func runMap(cmd *cobra.Command, args []string) error {
	in, err := loadInputs(cmd, true, false)
	if err != nil {
		return err
	}

	_, matrix := computeMatrix(in)
	printDiagnostics(in.diags)

	entries := matrix.Entries()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No skill-course associations found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-24s  %s\n", "Skill", "Course", "Weight")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 58))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-24s  %-24s  %.3f\n", e.SkillID, e.CourseID, e.Weight)
	}
	fmt.Fprintf(os.Stdout, "\n%d associations across %d skills\n", len(entries), len(matrix.Skills()))
	return nil
}

func init() {
	mapCmd.Flags().String("corpus", "data/postings.csv", "posting corpus CSV")
	mapCmd.Flags().String("courses", "data/courses.yaml", "course catalog YAML")
	mapCmd.Flags().Bool("json", false, "output matrix rows as JSON")

	rootCmd.AddCommand(mapCmd)
}
