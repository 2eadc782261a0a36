// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Posting is one job advertisement from the collected corpus. The corpus
// is produced by out-of-scope collectors (board scrapers, feed importers)
// and handed to the engine as an immutable snapshot.
// See docs/ARCHITECTURE § Inputs.
type Posting struct {
	// RecordID uniquely identifies the posting within the snapshot
	// (collectors use the posting URL).
	RecordID string `json:"record_id" yaml:"record_id"`

	// RawText is the posting text scanned for skills (title plus description).
	RawText string `json:"raw_text" yaml:"raw_text"`

	// Timestamp is the posting's publication date.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Category is the job-board category label (e.g. "IT", "Finance").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// SkillObservation records one canonical skill found in one posting.
// Observations are immutable; the extractor produces them once per batch.
type SkillObservation struct {
	// SkillID is the canonical skill identifier after synonym folding.
	SkillID string `json:"skill_id" yaml:"skill_id"`

	// RecordID is the posting the skill was found in.
	RecordID string `json:"record_id" yaml:"record_id"`

	// Timestamp is the posting's publication date, copied so the
	// aggregator needs no lookup back into the corpus.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
