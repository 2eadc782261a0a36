// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillcast/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export a stored run as YAML and JSON",
	Long: `Export rewrites export.yaml and export.json in the results directory
from a previously persisted run, without recomputing anything. By
default the latest run is exported; pass --run to pick another.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	runID, _ := cmd.Flags().GetString("run")
	if runID == "" {
		info, err := st.LatestRun(ctx)
		if err != nil {
			return err
		}
		runID = info.ID
	}

	if err := st.ExportYAML(ctx, runID); err != nil {
		return err
	}
	if err := st.ExportJSON(ctx, runID); err != nil {
		return err
	}

	fmt.Printf("exported run %s to %s\n", runID, cfg.Store.ResultsDir)
	return nil
}

func init() {
	exportCmd.Flags().String("run", "", "run ID to export (default: latest)")

	rootCmd.AddCommand(exportCmd)
}
