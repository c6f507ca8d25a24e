package corpus

import (
	"errors"
	"math"
	"sort"
)

// VectorConfig bounds the vocabulary of a VectorSpace.
type VectorConfig struct {
	// MaxFeatures caps the vocabulary at the most frequent terms.
	MaxFeatures int

	// MinDF drops terms found in fewer documents.
	MinDF int

	// MaxDFRatio drops terms found in more than this share of documents.
	MaxDFRatio float64

	// FilterMinDocs is the corpus size from which the document-frequency
	// filters apply. Smaller corpora keep every term.
	FilterMinDocs int
}

// DefaultVectorConfig returns the vocabulary bounds used by the index.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		MaxFeatures:   5000,
		MinDF:         2,
		MaxDFRatio:    0.95,
		FilterMinDocs: 20,
	}
}

// ErrEmptyVocabulary is returned when no term survives the filters.
var ErrEmptyVocabulary = errors.New("corpus: empty vocabulary")

// sparse is an L2-normalized term-weight vector sorted by vocabulary
// index. Ordered storage keeps floating-point sums reproducible.
type sparse []weight

type weight struct {
	idx int
	w   float64
}

// VectorSpace is a TF-IDF model over unigrams and bigrams of one subject's
// examples. Read-only after construction.
type VectorSpace struct {
	vocab map[string]int
	idf   []float64
	docs  []sparse
}

// NewVectorSpace fits a VectorSpace to docs.
func NewVectorSpace(docs []string, cfg VectorConfig) (*VectorSpace, error) {
	n := len(docs)
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, t := range terms(Tokenize(doc)) {
			c[t]++
			total[t]++
		}
		for t := range c {
			df[t]++
		}
		counts[i] = c
	}

	candidates := make([]string, 0, len(df))
	for t, d := range df {
		if n >= cfg.FilterMinDocs {
			if d < cfg.MinDF || float64(d) > cfg.MaxDFRatio*float64(n) {
				continue
			}
		}
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Most frequent first; lexical order makes the cut deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if total[a] != total[b] {
			return total[a] > total[b]
		}
		return a < b
	})
	if cfg.MaxFeatures > 0 && len(candidates) > cfg.MaxFeatures {
		candidates = candidates[:cfg.MaxFeatures]
	}

	vs := &VectorSpace{
		vocab: make(map[string]int, len(candidates)),
		idf:   make([]float64, len(candidates)),
		docs:  make([]sparse, n),
	}
	for i, t := range candidates {
		vs.vocab[t] = i
		// Smoothed idf: ln((1+n)/(1+df)) + 1.
		vs.idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}
	for i, c := range counts {
		vs.docs[i] = vs.weigh(c)
	}
	return vs, nil
}

// Len returns the number of documents.
func (vs *VectorSpace) Len() int {
	return len(vs.docs)
}

// Similarities returns the cosine similarity of query to every document,
// in document order.
func (vs *VectorSpace) Similarities(query string) []float64 {
	c := make(map[string]int)
	for _, t := range terms(Tokenize(query)) {
		c[t]++
	}
	q := vs.weigh(c)

	out := make([]float64, len(vs.docs))
	if len(q) == 0 {
		return out
	}
	for i, d := range vs.docs {
		out[i] = dot(q, d)
	}
	return out
}

// weigh turns raw term counts into a normalized tf-idf vector.
// Out-of-vocabulary terms are ignored.
func (vs *VectorSpace) weigh(counts map[string]int) sparse {
	v := make(sparse, 0, len(counts))
	for t, tf := range counts {
		if idx, ok := vs.vocab[t]; ok {
			v = append(v, weight{idx: idx, w: float64(tf) * vs.idf[idx]})
		}
	}
	sort.Slice(v, func(i, j int) bool { return v[i].idx < v[j].idx })

	var norm float64
	for _, e := range v {
		norm += e.w * e.w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i].w /= norm
	}
	return v
}

// dot merges two index-sorted vectors.
func dot(a, b sparse) float64 {
	var s float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].idx < b[j].idx:
			i++
		case a[i].idx > b[j].idx:
			j++
		default:
			s += a[i].w * b[j].w
			i++
			j++
		}
	}
	return s
}
