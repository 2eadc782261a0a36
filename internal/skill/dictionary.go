// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package skill maps raw posting text to canonical skill identifiers
// using a versioned dictionary of surface-form patterns.
// See docs/ARCHITECTURE § Extraction.
package skill

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Entry defines one canonical skill and the surface forms that fold
// into it. Patterns may span multiple tokens ("machine learning").
type Entry struct {
	// ID is the canonical skill identifier (lowercase, hyphenated).
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Patterns lists the surface forms matched in posting text,
	// case-insensitively and on token boundaries.
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// Dictionary is an explicit, versioned mapping from canonical skill
// identifiers to matching patterns. It is the only source of skill
// identity in the engine: one identifier per concept, synonyms folded.
type Dictionary struct {
	// Version identifies the dictionary revision that produced a batch.
	Version string `json:"version" yaml:"version"`

	// Skills lists the canonical entries.
	Skills []Entry `json:"skills" yaml:"skills"`

	// byFirstToken indexes compiled patterns by their first token.
	byFirstToken map[string][]compiledPattern
	maxTokens    int
}

// compiledPattern is a tokenized surface form bound to its skill ID.
type compiledPattern struct {
	tokens  []string
	skillID string
}

// Load reads and compiles a dictionary from a YAML file.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary %s: %w", path, err)
	}
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing dictionary %s: %w", path, err)
	}
	if err := d.Compile(); err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return &d, nil
}

// Compile validates the entries and builds the pattern index. It must be
// called before Extract; Load does so automatically.
func (d *Dictionary) Compile() error {
	if len(d.Skills) == 0 {
		return fmt.Errorf("dictionary has no skills")
	}

	seenIDs := make(map[string]bool)
	owner := make(map[string]string) // normalized pattern → skill ID
	d.byFirstToken = make(map[string][]compiledPattern)
	d.maxTokens = 0

	for _, e := range d.Skills {
		if e.ID == "" {
			return fmt.Errorf("skill with empty id")
		}
		if seenIDs[e.ID] {
			return fmt.Errorf("duplicate skill id %q", e.ID)
		}
		seenIDs[e.ID] = true

		// The canonical name always matches, in addition to the
		// listed patterns.
		patterns := append([]string{e.Name}, e.Patterns...)

		usable := 0
		for _, p := range patterns {
			toks := Tokenize(p)
			if len(toks) == 0 {
				continue
			}
			key := strings.Join(toks, " ")
			if prev, ok := owner[key]; ok {
				if prev != e.ID {
					return fmt.Errorf("pattern %q claimed by both %q and %q", p, prev, e.ID)
				}
				usable++
				continue
			}
			owner[key] = e.ID
			usable++

			d.byFirstToken[toks[0]] = append(d.byFirstToken[toks[0]], compiledPattern{
				tokens:  toks,
				skillID: e.ID,
			})
			if len(toks) > d.maxTokens {
				d.maxTokens = len(toks)
			}
		}

		if usable == 0 {
			return fmt.Errorf("skill %q has no usable patterns", e.ID)
		}
	}

	// Longer patterns first so "machine learning" wins over "machine"
	// at the same position.
	for k := range d.byFirstToken {
		ps := d.byFirstToken[k]
		sort.Slice(ps, func(i, j int) bool {
			if len(ps[i].tokens) != len(ps[j].tokens) {
				return len(ps[i].tokens) > len(ps[j].tokens)
			}
			return ps[i].skillID < ps[j].skillID
		})
	}

	return nil
}

// IDs returns all canonical skill identifiers in ascending order.
func (d *Dictionary) IDs() []string {
	ids := make([]string, 0, len(d.Skills))
	for _, e := range d.Skills {
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return ids
}

// NameOf returns the display name for a skill ID, or the ID itself when
// unknown.
func (d *Dictionary) NameOf(id string) string {
	for _, e := range d.Skills {
		if e.ID == id {
			return e.Name
		}
	}
	return id
}
