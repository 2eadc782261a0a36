// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapper builds the weighted skill-course association matrix:
// cosine similarity between each skill's pseudo-document and each
// course's content, computed in the batch's shared vector space.
// See docs/ARCHITECTURE § Mapping.
package mapper

import (
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/skillcast/internal/skill"
	"github.com/pdiddy/skillcast/internal/vectorspace"
	"github.com/pdiddy/skillcast/pkg/types"
)

// Space holds the batch's shared vocabulary and the course vectors
// within it. Built once per snapshot; the mapper and the recommender
// both score against it, so content similarities are comparable.
type Space struct {
	Vocab   *vectorspace.Vocabulary
	courses map[string]vectorspace.Vector
}

// BuildSpace constructs the vocabulary over the full course and posting
// corpus and vectorizes every course. Course vectorization fans out per
// course; each vector depends only on the read-only vocabulary.
func BuildSpace(courses []types.Course, corpus []types.Posting) *Space {
	docs := make([][]string, 0, len(courses)+len(corpus))
	courseTokens := make([][]string, len(courses))
	for i, c := range courses {
		courseTokens[i] = skill.Tokenize(c.ContentText)
		docs = append(docs, courseTokens[i])
	}
	for _, p := range corpus {
		docs = append(docs, skill.Tokenize(p.RawText))
	}

	sp := &Space{
		Vocab:   vectorspace.Build(docs),
		courses: make(map[string]vectorspace.Vector, len(courses)),
	}

	type courseVec struct {
		id  string
		vec vectorspace.Vector
	}
	ch := make(chan courseVec, len(courses))
	var wg sync.WaitGroup

	for i, c := range courses {
		wg.Add(1)
		go func(id string, tokens []string) {
			defer wg.Done()
			ch <- courseVec{id: id, vec: sp.Vocab.Vector(tokens)}
		}(c.ID, courseTokens[i])
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	for cv := range ch {
		sp.courses[cv.id] = cv.vec
	}
	return sp
}

// CourseVector returns a course's vector in the shared space.
func (s *Space) CourseVector(courseID string) (vectorspace.Vector, bool) {
	v, ok := s.courses[courseID]
	return v, ok
}

// Build computes the skill-course matrix. Each skill's pseudo-document
// is its canonical name, its dictionary patterns, and the corpus
// contexts its observations were found in. Rows are normalized per
// cfg.RowNorm so cross-skill comparisons are scale independent.
// Rebuilding from the same snapshot yields identical weights.
func Build(space *Space, courses []types.Course, dict *skill.Dictionary, contexts map[string][]string, cfg types.MapperConfig) *Matrix {
	m := &Matrix{
		weights: make(map[string]map[string]float64),
		skills:  dict.IDs(),
	}
	for _, c := range courses {
		m.courseIDs = append(m.courseIDs, c.ID)
	}
	sort.Strings(m.courseIDs)

	type row struct {
		skillID string
		weights map[string]float64
	}
	ch := make(chan row, len(m.skills))
	var wg sync.WaitGroup

	for _, e := range dict.Skills {
		wg.Add(1)
		go func(e skill.Entry) {
			defer wg.Done()
			vec := space.Vocab.Vector(pseudoDocument(e, contexts[e.ID]))

			r := row{skillID: e.ID, weights: make(map[string]float64)}
			for id, cv := range space.courses {
				if w := vectorspace.Cosine(vec, cv); w > 0 {
					r.weights[id] = w
				}
			}
			normalizeRow(r.weights, cfg.RowNorm)
			ch <- r
		}(e)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	for r := range ch {
		if len(r.weights) > 0 {
			m.weights[r.skillID] = r.weights
		}
	}
	return m
}

// pseudoDocument assembles the tokens representing one skill: canonical
// name, patterns, and observation contexts.
func pseudoDocument(e skill.Entry, contexts []string) []string {
	var parts []string
	parts = append(parts, e.Name)
	parts = append(parts, e.Patterns...)
	parts = append(parts, contexts...)
	return skill.Tokenize(strings.Join(parts, " "))
}

func normalizeRow(weights map[string]float64, norm types.RowNorm) {
	if len(weights) == 0 {
		return
	}
	var div float64
	switch norm {
	case types.NormSum:
		for _, w := range weights {
			div += w
		}
	default:
		for _, w := range weights {
			if w > div {
				div = w
			}
		}
	}
	if div <= 0 {
		return
	}
	for id, w := range weights {
		weights[id] = w / div
	}
}
