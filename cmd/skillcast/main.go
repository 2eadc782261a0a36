// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the skillcast CLI: batch skill
// demand forecasting and demand-aware course recommendation over job
// posting snapshots. See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the skillcast CLI.
var rootCmd = &cobra.Command{
	Use:   "skillcast",
	Short: "Skill demand forecasting and course recommendation",
	Long: `skillcast turns a job posting corpus and a course catalog into skill
demand forecasts, demand-aware course recommendations, and a curriculum
coverage report.

Each stage is a subcommand: forecast, map, recommend, and coverage.
The run subcommand executes the full pipeline over one input snapshot
and persists the results.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./skillcast.yaml or ~/.config/skillcast/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("skillcast")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "skillcast"))
		}
	}

	viper.SetEnvPrefix("SKILLCAST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
