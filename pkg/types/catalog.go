// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Course is one catalog entry. Static reference data owned by the
// catalog collaborator; the engine never mutates it.
type Course struct {
	// ID uniquely identifies the course within the catalog.
	ID string `json:"course_id" yaml:"course_id"`

	// ContentText is the course description scanned for vocabulary.
	ContentText string `json:"content_text" yaml:"content_text"`

	// Prerequisites lists course IDs that must be completed first.
	Prerequisites []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`

	// Level is the ordinal course level (e.g. 1=intro, 3=advanced).
	Level int `json:"level" yaml:"level"`
}

// StudentProfile describes one student for recommendation ranking.
type StudentProfile struct {
	// StudentID identifies the profile in multi-profile batches.
	StudentID string `json:"student_id" yaml:"student_id"`

	// Completed lists course IDs the student has finished.
	Completed []string `json:"completed,omitempty" yaml:"completed,omitempty"`

	// Interests is a weighted bag of free-text terms describing what the
	// student wants to study.
	Interests map[string]float64 `json:"interests,omitempty" yaml:"interests,omitempty"`

	// MaxLevel is the highest course level the student may take.
	MaxLevel int `json:"max_level" yaml:"max_level"`
}

// MatrixEntry is one cell of the skill-course association matrix in row
// form, as exported to downstream reporting. Weights are row-normalized
// per skill and never negative.
type MatrixEntry struct {
	SkillID  string  `json:"skill_id" yaml:"skill_id"`
	CourseID string  `json:"course_id" yaml:"course_id"`
	Weight   float64 `json:"weight" yaml:"weight"`
}

// Recommendation is one ranked course for one student. Ephemeral:
// regenerated per request, never authoritative state.
type Recommendation struct {
	StudentID string  `json:"student_id,omitempty" yaml:"student_id,omitempty"`
	CourseID  string  `json:"course_id" yaml:"course_id"`
	Score     float64 `json:"score" yaml:"score"`
	Rank      int     `json:"rank" yaml:"rank"`
}

// CoverageRow reports how well the catalog covers one skill. The full
// per-skill report is emitted, not just flagged gaps, so downstream
// reporting can recompute thresholds without rerunning the engine.
type CoverageRow struct {
	SkillID       string  `json:"skill_id" yaml:"skill_id"`
	DemandRank    int     `json:"demand_rank" yaml:"demand_rank"`
	CoverageScore float64 `json:"coverage_score" yaml:"coverage_score"`
	Gap           bool    `json:"gap_flag" yaml:"gap_flag"`
}

// Diagnostic records one non-fatal, per-entity failure collected during
// a batch run: an insufficient-data skill, a malformed corpus row, a
// profile that could not be ranked. Diagnostics ride alongside the valid
// results; they never abort the batch. See docs/ARCHITECTURE § Errors.
type Diagnostic struct {
	// Stage names the pipeline stage that recorded the diagnostic
	// (e.g. "extract", "forecast", "recommend").
	Stage string `json:"stage" yaml:"stage"`

	// EntityID identifies the skipped entity (skill, record, or student).
	EntityID string `json:"entity_id" yaml:"entity_id"`

	// Reason is a human-readable explanation.
	Reason string `json:"reason" yaml:"reason"`
}
