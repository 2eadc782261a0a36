// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillcast/internal/forecast"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast skill demand from a posting corpus",
	Long: `Forecast extracts canonical skills from the posting corpus, aggregates
them into fixed-width demand buckets, and fits a polynomial trend per
skill. Skills are classified as emerging, stable, or declining; skills
with too little history are reported as insufficient data.`,
	RunE: runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	in, err := loadInputs(cmd, false, false)
	if err != nil {
		return err
	}

	axis, series, out := computeForecast(in)
	printDiagnostics(append(in.diags, out.Diagnostics...))

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(forecast.DemandTable(axis, series, out))
	}

	forecast.FormatTable(out, os.Stdout)
	return nil
}

func init() {
	forecastCmd.Flags().String("corpus", "data/postings.csv", "posting corpus CSV")
	forecastCmd.Flags().Bool("json", false, "output the demand table as JSON")

	rootCmd.AddCommand(forecastCmd)
}
