// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"sort"

	"github.com/pdiddy/skillcast/pkg/types"
)

// Matrix is the skill-course association matrix: weight in [0,1] per
// (skill, course), stored sparsely. Zero-overlap pairs carry no entry
// and read as weight 0.
type Matrix struct {
	weights   map[string]map[string]float64 // skill → course → weight
	skills    []string                      // sorted
	courseIDs []string                      // sorted
}

// Weight returns the normalized weight for a (skill, course) pair.
// Unknown pairs are 0, never an error.
func (m *Matrix) Weight(skillID, courseID string) float64 {
	return m.weights[skillID][courseID]
}

// Skills returns all skill IDs in the matrix in ascending order,
// including skills whose rows are entirely zero.
func (m *Matrix) Skills() []string {
	return m.skills
}

// Courses returns all course IDs in ascending order.
func (m *Matrix) Courses() []string {
	return m.courseIDs
}

// Row returns a copy of one skill's non-zero weights.
func (m *Matrix) Row(skillID string) map[string]float64 {
	row := make(map[string]float64, len(m.weights[skillID]))
	for id, w := range m.weights[skillID] {
		row[id] = w
	}
	return row
}

// RowAggregate reduces a skill's row to a single coverage score: the
// maximum weight, or the mean over all courses in the catalog.
func (m *Matrix) RowAggregate(skillID string, agg types.CoverageAggregate) float64 {
	row := m.weights[skillID]
	switch agg {
	case types.CoverageMean:
		if len(m.courseIDs) == 0 {
			return 0
		}
		var sum float64
		for _, w := range row {
			sum += w
		}
		return sum / float64(len(m.courseIDs))
	default:
		var max float64
		for _, w := range row {
			if w > max {
				max = w
			}
		}
		return max
	}
}

// TopSkills returns the n highest-weighted skills for a course, weight
// descending with ties broken by ascending skill ID.
func (m *Matrix) TopSkills(courseID string, n int) []types.MatrixEntry {
	var entries []types.MatrixEntry
	for _, skillID := range m.skills {
		if w, ok := m.weights[skillID][courseID]; ok && w > 0 {
			entries = append(entries, types.MatrixEntry{
				SkillID:  skillID,
				CourseID: courseID,
				Weight:   w,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].SkillID < entries[j].SkillID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Entries flattens the matrix into sorted rows for export: skill ID
// ascending, then course ID ascending. Zero weights are omitted.
func (m *Matrix) Entries() []types.MatrixEntry {
	var entries []types.MatrixEntry
	for _, skillID := range m.skills {
		row := m.weights[skillID]
		courseIDs := make([]string, 0, len(row))
		for id := range row {
			courseIDs = append(courseIDs, id)
		}
		sort.Strings(courseIDs)
		for _, id := range courseIDs {
			entries = append(entries, types.MatrixEntry{
				SkillID:  skillID,
				CourseID: id,
				Weight:   row[id],
			})
		}
	}
	return entries
}
