// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package skill

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/skillcast/pkg/types"
)

// Tokenize lowercases s and splits it into tokens on non-token runes.
// Letters, digits, '+' and '#' are token runes, so "C++" and "c#"
// survive as single tokens while "node.js" and "node js" normalize to
// the same token pair. Invalid UTF-8 is dropped rather than reported.
func Tokenize(s string) []string {
	s = strings.ToValidUTF8(strings.ToLower(s), "")
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// Extract returns the distinct skills found in one posting, each stamped
// with the posting's timestamp. Matching is case-insensitive, token
// boundary aware, and synonym folding; multiple mentions of one skill in
// a posting yield a single observation. Pure function: empty or
// undecodable text yields an empty slice, never an error.
func Extract(p types.Posting, dict *Dictionary) []types.SkillObservation {
	matched := matchSkills(Tokenize(p.RawText), dict)
	if len(matched) == 0 {
		return nil
	}

	ids := make([]string, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	obs := make([]types.SkillObservation, 0, len(ids))
	for _, id := range ids {
		obs = append(obs, types.SkillObservation{
			SkillID:   id,
			RecordID:  p.RecordID,
			Timestamp: p.Timestamp,
		})
	}
	return obs
}

// matchSkills scans the token stream and returns the set of skill IDs
// with at least one pattern match.
func matchSkills(tokens []string, dict *Dictionary) map[string]bool {
	var matched map[string]bool
	for i := range tokens {
		for _, cp := range dict.byFirstToken[tokens[i]] {
			if !matchAt(tokens, i, cp.tokens) {
				continue
			}
			if matched == nil {
				matched = make(map[string]bool)
			}
			matched[cp.skillID] = true
		}
	}
	return matched
}

// matchAt reports whether pattern occupies tokens[i:i+len(pattern)].
func matchAt(tokens []string, i int, pattern []string) bool {
	if i+len(pattern) > len(tokens) {
		return false
	}
	for j, pt := range pattern {
		if tokens[i+j] != pt {
			return false
		}
	}
	return true
}

// CorpusSummary holds counts from extracting a posting snapshot.
type CorpusSummary struct {
	Scanned      int
	WithSkills   int
	Empty        int
	Observations int
}

// ExtractCorpus extracts observations from every posting in the
// snapshot. Records are processed independently; a posting without
// matches (or without text) contributes nothing and is only counted.
func ExtractCorpus(corpus []types.Posting, dict *Dictionary) ([]types.SkillObservation, CorpusSummary) {
	var all []types.SkillObservation
	var sum CorpusSummary

	for _, p := range corpus {
		sum.Scanned++
		if strings.TrimSpace(p.RawText) == "" {
			sum.Empty++
			continue
		}
		obs := Extract(p, dict)
		if len(obs) > 0 {
			sum.WithSkills++
			sum.Observations += len(obs)
			all = append(all, obs...)
		}
	}
	return all, sum
}

// CollectContexts gathers the tokens surrounding each skill match across
// the corpus: window tokens on each side, match included. The mapper
// builds each skill's pseudo-document from these snippets together with
// the skill's canonical name and patterns.
func CollectContexts(corpus []types.Posting, dict *Dictionary, window int) map[string][]string {
	contexts := make(map[string][]string)

	for _, p := range corpus {
		tokens := Tokenize(p.RawText)
		for i := range tokens {
			for _, cp := range dict.byFirstToken[tokens[i]] {
				if !matchAt(tokens, i, cp.tokens) {
					continue
				}
				lo := i - window
				if lo < 0 {
					lo = 0
				}
				hi := i + len(cp.tokens) + window
				if hi > len(tokens) {
					hi = len(tokens)
				}
				contexts[cp.skillID] = append(contexts[cp.skillID], strings.Join(tokens[lo:hi], " "))
			}
		}
	}
	return contexts
}
