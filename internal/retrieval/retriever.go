package retrieval

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/corpus"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
)

// Strategy names the preferred scorer.
type Strategy string

const (
	StrategyVector  Strategy = "vector"
	StrategyLexical Strategy = "lexical"
)

// minUsefulChars is the smallest truncated remainder worth including.
const minUsefulChars = 100

// blockSeparator joins example blocks in the excerpt.
const blockSeparator = "\n\n"

// Retriever ranks a subject's examples and returns a bounded excerpt.
// It never fails: an unknown subject or empty corpus yields "".
type Retriever struct {
	index    *corpus.Index
	primary  Scorer
	fallback Scorer
	log      *logger.Logger
}

// New creates a Retriever preferring the given strategy. The lexical
// scorer always backs up the vector scorer.
func New(index *corpus.Index, strategy Strategy, log *logger.Logger) *Retriever {
	if log == nil {
		log = logger.Nop()
	}
	r := &Retriever{index: index, fallback: Lexical{}, log: log}
	switch strategy {
	case StrategyLexical:
		r.primary = Lexical{}
	default:
		r.primary = Vector{Index: index}
	}
	return r
}

// Retrieve returns the concatenated "Q: ...\nA: ..." blocks of the topK
// most relevant examples, bounded by maxChars (zero or less means
// unbounded). The last block is truncated to fit, or dropped when fewer
// than minUsefulChars would remain.
func (r *Retriever) Retrieve(subject, query string, maxChars, topK int) string {
	examples := r.index.Examples(subject)
	if len(examples) == 0 || topK <= 0 {
		return ""
	}

	scores, err := r.score(r.primary, subject, query, examples)
	if err != nil && r.primary.Name() != r.fallback.Name() {
		r.log.Debug("retrieval falling back", "subject", subject, "scorer", r.primary.Name(), "error", err)
		scores, err = r.score(r.fallback, subject, query, examples)
	}
	if err != nil {
		r.log.Warn("retrieval failed", "subject", subject, "error", err)
		return ""
	}

	return assemble(examples, rank(scores, topK), maxChars)
}

// score runs s, converting a panic into an error.
func (r *Retriever) score(s Scorer, subject, query string, examples []corpus.Example) (scores []float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s scorer panicked: %v", s.Name(), p)
		}
	}()
	scores, err = s.Score(subject, query, examples)
	if err == nil && len(scores) != len(examples) {
		err = fmt.Errorf("%s scorer returned %d scores for %d examples", s.Name(), len(scores), len(examples))
	}
	return scores, err
}

// rank returns the indices of the topK positive scores, highest first.
// Equal scores keep insertion order.
func rank(scores []float64, topK int) []int {
	idx := make([]int, 0, len(scores))
	for i, s := range scores {
		if s > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if len(idx) > topK {
		idx = idx[:topK]
	}
	return idx
}

func assemble(examples []corpus.Example, order []int, maxChars int) string {
	var b strings.Builder
	used := 0
	for n, i := range order {
		block := examples[i].Block()
		sep := ""
		if n > 0 {
			sep = blockSeparator
		}
		size := utf8.RuneCountInString(sep + block)
		if maxChars <= 0 || used+size <= maxChars {
			b.WriteString(sep)
			b.WriteString(block)
			used += size
			continue
		}

		remaining := maxChars - used - utf8.RuneCountInString(sep)
		if remaining >= minUsefulChars {
			b.WriteString(sep)
			b.WriteString(truncateRunes(block, remaining))
		}
		break
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
