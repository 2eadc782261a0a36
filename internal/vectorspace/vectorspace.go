// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorspace builds a shared term-weighted vector space over
// the full course and posting corpus, and computes cosine similarity
// within it. The vocabulary is built once per batch snapshot; every
// vector in a batch lives in the same space, so similarities are
// comparable across skills, courses, and student interests.
// See docs/ARCHITECTURE § Vector Space.
package vectorspace

import (
	"math"
	"sort"
)

// Vocabulary is the term universe of one batch. Term indices are
// assigned in sorted term order, so identical snapshots produce
// bit-identical vocabularies.
type Vocabulary struct {
	index map[string]int
	terms []string
	df    []int
	docs  int
}

// Build constructs the vocabulary from tokenized documents. Stopwords
// are excluded; document frequency is counted per distinct document.
func Build(docs [][]string) *Vocabulary {
	dfByTerm := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, t := range doc {
			if stopwords[t] || seen[t] {
				continue
			}
			seen[t] = true
			dfByTerm[t]++
		}
	}

	terms := make([]string, 0, len(dfByTerm))
	for t := range dfByTerm {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	v := &Vocabulary{
		index: make(map[string]int, len(terms)),
		terms: terms,
		df:    make([]int, len(terms)),
		docs:  len(docs),
	}
	for i, t := range terms {
		v.index[t] = i
		v.df[i] = dfByTerm[t]
	}
	return v
}

// Size returns the number of terms in the vocabulary.
func (v *Vocabulary) Size() int { return len(v.terms) }

// Vector is a sparse term-weighted document vector: term index → weight.
// Weights are non-negative, so cosine similarities fall in [0,1].
type Vector map[int]float64

// Vector computes the tf-idf vector of a tokenized document. Term
// frequency is discounted by ln(1 + N/df), which stays strictly
// positive even for terms present in every document. Unknown terms and
// stopwords contribute nothing.
func (v *Vocabulary) Vector(tokens []string) Vector {
	tf := make(map[int]int)
	for _, t := range tokens {
		if i, ok := v.index[t]; ok {
			tf[i]++
		}
	}

	vec := make(Vector, len(tf))
	for i, n := range tf {
		idf := math.Log(1 + float64(v.docs)/float64(v.df[i]))
		vec[i] = float64(n) * idf
	}
	return vec
}

// WeightedVector computes the tf-idf vector of a weighted bag of terms,
// as used for student interest profiles. Negative weights are ignored.
func (v *Vocabulary) WeightedVector(terms map[string]float64) Vector {
	vec := make(Vector)
	for t, w := range terms {
		if w <= 0 {
			continue
		}
		if i, ok := v.index[t]; ok {
			idf := math.Log(1 + float64(v.docs)/float64(v.df[i]))
			vec[i] += w * idf
		}
	}
	return vec
}

// Cosine returns the cosine similarity of two vectors in [0,1].
// Zero vocabulary overlap yields 0, not an error; the value is
// symmetric in its arguments.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for i, wa := range a {
		if wb, ok := b[i]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}

	sim := dot / (norm(a) * norm(b))
	// Guard against float drift past 1.0.
	if sim > 1 {
		sim = 1
	}
	return sim
}

func norm(v Vector) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// stopwords are excluded from the vocabulary. The list is intentionally
// small: canonical-skill extraction happens upstream, and the vector
// space only needs common-word damping, not full NLP.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "this": true, "to": true,
	"with": true, "will": true, "you": true, "your": true, "we": true,
	"our": true, "their": true, "they": true, "have": true, "has": true,
}
