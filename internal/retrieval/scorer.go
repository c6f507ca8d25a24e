// Package retrieval ranks corpus examples against a learner query and
// assembles the bounded context excerpt injected into prompts.
package retrieval

import (
	"errors"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/corpus"
)

// Scorer assigns a relevance score to every example of a subject, in
// example order. Higher is more relevant; zero means unrelated.
type Scorer interface {
	Name() string
	Score(subject, query string, examples []corpus.Example) ([]float64, error)
}

// Lexical scores by shared tokens, each weighted by the inverse of its
// frequency within the candidate, so a rare shared term counts more than
// one the candidate repeats everywhere.
type Lexical struct{}

func (Lexical) Name() string { return "lexical" }

func (Lexical) Score(_, query string, examples []corpus.Example) ([]float64, error) {
	// Unique query tokens in first-seen order; the fixed order keeps the
	// floating-point sums reproducible.
	var qTokens []string
	seen := make(map[string]bool)
	for _, t := range corpus.Tokenize(query) {
		if !seen[t] {
			seen[t] = true
			qTokens = append(qTokens, t)
		}
	}

	scores := make([]float64, len(examples))
	if len(qTokens) == 0 {
		return scores, nil
	}
	for i, ex := range examples {
		freq := make(map[string]int)
		for _, t := range corpus.Tokenize(ex.Text()) {
			freq[t]++
		}
		var s float64
		for _, t := range qTokens {
			if n := freq[t]; n > 0 {
				s += 1 / float64(n)
			}
		}
		scores[i] = s
	}
	return scores, nil
}

// ErrNoVectors is returned by Vector when the subject has no usable space.
var ErrNoVectors = errors.New("retrieval: no vector space for subject")

// Vector scores by TF-IDF cosine similarity against the subject's cached
// vector space.
type Vector struct {
	Index *corpus.Index
}

func (Vector) Name() string { return "vector" }

func (v Vector) Score(subject, query string, examples []corpus.Example) ([]float64, error) {
	vs, err := v.Index.Vectors(subject)
	if err != nil {
		return nil, err
	}
	if vs == nil || vs.Len() != len(examples) {
		return nil, ErrNoVectors
	}
	return vs.Similarities(query), nil
}
