// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skillcast/pkg/types"
)

// courseFile is the on-disk course catalog.
type courseFile struct {
	Courses []types.Course `yaml:"courses"`
}

// LoadCourses reads the course catalog YAML. Courses without an ID or
// with a negative level are skipped with a diagnostic; prerequisites
// referring to unknown courses are reported but kept, since the catalog
// may legitimately reference courses taught elsewhere.
func LoadCourses(path string) ([]types.Course, []types.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var cf courseFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	var (
		courses []types.Course
		diags   []types.Diagnostic
		known   = make(map[string]bool)
	)
	for i, c := range cf.Courses {
		if c.ID == "" {
			diags = append(diags, types.Diagnostic{
				Stage:    "catalog",
				EntityID: fmt.Sprintf("entry %d", i),
				Reason:   "missing course_id",
			})
			continue
		}
		if known[c.ID] {
			diags = append(diags, types.Diagnostic{
				Stage:    "catalog",
				EntityID: c.ID,
				Reason:   "duplicate course_id",
			})
			continue
		}
		if c.Level < 0 {
			diags = append(diags, types.Diagnostic{
				Stage:    "catalog",
				EntityID: c.ID,
				Reason:   fmt.Sprintf("negative level %d", c.Level),
			})
			continue
		}
		known[c.ID] = true
		courses = append(courses, c)
	}

	for _, c := range courses {
		for _, p := range c.Prerequisites {
			if !known[p] {
				diags = append(diags, types.Diagnostic{
					Stage:    "catalog",
					EntityID: c.ID,
					Reason:   fmt.Sprintf("prerequisite %q not in catalog", p),
				})
			}
		}
	}

	return courses, diags, nil
}

// profileFile is the on-disk student profile batch.
type profileFile struct {
	Profiles []types.StudentProfile `yaml:"profiles"`
}

// LoadProfiles reads a student profile batch YAML. Profiles without a
// student ID are skipped with a diagnostic.
func LoadProfiles(path string) ([]types.StudentProfile, []types.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading profiles %s: %w", path, err)
	}

	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}

	var (
		profiles []types.StudentProfile
		diags    []types.Diagnostic
	)
	for i, p := range pf.Profiles {
		if p.StudentID == "" {
			diags = append(diags, types.Diagnostic{
				Stage:    "profiles",
				EntityID: fmt.Sprintf("entry %d", i),
				Reason:   "missing student_id",
			})
			continue
		}
		profiles = append(profiles, p)
	}

	return profiles, diags, nil
}
