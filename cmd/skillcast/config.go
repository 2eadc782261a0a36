// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/pdiddy/skillcast/pkg/types"
)

// loadConfig merges the config file and environment over the defaults
// and validates the result. Invalid configuration aborts before any
// stage runs; nothing else does.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultConfig()

	setString(&cfg.Extract.DictionaryPath, "extract.dictionary_path")
	setInt(&cfg.Extract.ContextWindow, "extract.context_window")

	if viper.IsSet("forecast.bucket_width") {
		cfg.Forecast.BucketWidth = cast.ToDuration(viper.Get("forecast.bucket_width"))
	}
	setInt(&cfg.Forecast.SmoothingWindow, "forecast.smoothing_window")
	setInt(&cfg.Forecast.Horizon, "forecast.horizon")
	setInt(&cfg.Forecast.MinHistoryBuckets, "forecast.min_history_buckets")
	setInt(&cfg.Forecast.TrendDegree, "forecast.trend_degree")
	setFloat(&cfg.Forecast.EmergingThreshold, "forecast.emerging_threshold")
	setFloat(&cfg.Forecast.DecliningThreshold, "forecast.declining_threshold")

	if viper.IsSet("mapper.row_norm") {
		cfg.Mapper.RowNorm = types.RowNorm(cast.ToString(viper.Get("mapper.row_norm")))
	}

	setInt(&cfg.Recommend.TopK, "recommend.top_k")
	setFloat(&cfg.Recommend.BlendAlpha, "recommend.blend_alpha")
	setInt(&cfg.Recommend.TopSkills, "recommend.top_skills")

	setFloat(&cfg.Coverage.TopDemandFraction, "coverage.top_demand_fraction")
	setFloat(&cfg.Coverage.LowCoverageThreshold, "coverage.low_coverage_threshold")
	if viper.IsSet("coverage.aggregate") {
		cfg.Coverage.Aggregate = types.CoverageAggregate(cast.ToString(viper.Get("coverage.aggregate")))
	}

	setString(&cfg.Store.ResultsDir, "store.results_dir")

	if err := cfg.Validate(); err != nil {
		return types.PipelineConfig{}, err
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if viper.IsSet(key) {
		*dst = cast.ToString(viper.Get(key))
	}
}

func setInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = cast.ToInt(viper.Get(key))
	}
}

func setFloat(dst *float64, key string) {
	if viper.IsSet(key) {
		*dst = cast.ToFloat64(viper.Get(key))
	}
}
