// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/skillcast/internal/catalog"
	"github.com/pdiddy/skillcast/internal/forecast"
	"github.com/pdiddy/skillcast/internal/mapper"
	"github.com/pdiddy/skillcast/internal/skill"
	"github.com/pdiddy/skillcast/pkg/types"
)

// inputs is one immutable batch snapshot: everything a stage needs,
// loaded up front. Loading problems with individual rows become
// diagnostics; only unreadable files or an invalid config abort.
type inputs struct {
	cfg      types.PipelineConfig
	dict     *skill.Dictionary
	corpus   []types.Posting
	courses  []types.Course
	profiles []types.StudentProfile
	diags    []types.Diagnostic
}

// loadInputs reads the config, dictionary, and corpus, plus the course
// catalog and profile batch when the calling stage needs them.
func loadInputs(cmd *cobra.Command, needCourses, needProfiles bool) (*inputs, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dict, err := skill.Load(cfg.Extract.DictionaryPath)
	if err != nil {
		return nil, err
	}

	corpusPath, _ := cmd.Flags().GetString("corpus")
	corpus, corpusDiags, err := catalog.LoadPostings(corpusPath)
	if err != nil {
		return nil, err
	}

	in := &inputs{
		cfg:    cfg,
		dict:   dict,
		corpus: corpus,
		diags:  corpusDiags,
	}

	if needCourses {
		coursesPath, _ := cmd.Flags().GetString("courses")
		courses, diags, err := catalog.LoadCourses(coursesPath)
		if err != nil {
			return nil, err
		}
		in.courses = courses
		in.diags = append(in.diags, diags...)
	}

	if needProfiles {
		profilesPath, _ := cmd.Flags().GetString("profiles")
		profiles, diags, err := catalog.LoadProfiles(profilesPath)
		if err != nil {
			return nil, err
		}
		in.profiles = profiles
		in.diags = append(in.diags, diags...)
	}

	return in, nil
}

// computeForecast runs extraction and forecasting over the snapshot.
func computeForecast(in *inputs) (types.TimeAxis, []types.SkillSeries, forecast.Output) {
	obs, sum := skill.ExtractCorpus(in.corpus, in.dict)
	fmt.Fprintf(os.Stderr, "scanned %d postings: %d with skills, %d empty, %d observations\n",
		sum.Scanned, sum.WithSkills, sum.Empty, sum.Observations)

	axis, series := forecast.Aggregate(obs, in.cfg.Forecast.BucketWidth)
	return axis, series, forecast.ForecastAll(series, in.cfg.Forecast)
}

// computeMatrix builds the shared vector space and skill-course matrix.
func computeMatrix(in *inputs) (*mapper.Space, *mapper.Matrix) {
	space := mapper.BuildSpace(in.courses, in.corpus)
	contexts := skill.CollectContexts(in.corpus, in.dict, in.cfg.Extract.ContextWindow)
	return space, mapper.Build(space, in.courses, in.dict, contexts, in.cfg.Mapper)
}

// printDiagnostics lists non-fatal per-entity problems on stderr.
func printDiagnostics(diags []types.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s %s: %s\n", d.Stage, d.EntityID, d.Reason)
	}
}
