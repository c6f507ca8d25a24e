package retrieval

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/corpus"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
)

var codingExamples = []corpus.Example{
	{Prompt: "What is a variable?", Answer: "A variable is a named place that stores a value."},
	{Prompt: "What is a loop?", Answer: "A loop repeats a block of code while a condition holds."},
	{Prompt: "What is a function?", Answer: "A function is a named block of reusable code."},
	{Prompt: "How do I write a for loop in Python?", Answer: "Use: for i in range(10): print(i)"},
}

func newIndex() *corpus.Index {
	return corpus.NewStaticIndex(map[string][]corpus.Example{
		"coding": codingExamples,
		"ielts":  nil,
	}, corpus.Options{Vectors: corpus.DefaultVectorConfig()})
}

func TestRetrieveEmptySubjects(t *testing.T) {
	r := New(newIndex(), StrategyVector, logger.Nop())
	for _, subject := range []string{"ielts", "history", ""} {
		if got := r.Retrieve(subject, "anything", 1200, 3); got != "" {
			t.Errorf("Retrieve(%q) = %q, want empty", subject, got)
		}
	}
}

func TestRetrieveTopK(t *testing.T) {
	for _, strategy := range []Strategy{StrategyVector, StrategyLexical} {
		t.Run(string(strategy), func(t *testing.T) {
			r := New(newIndex(), strategy, logger.Nop())
			got := r.Retrieve("coding", "how does a for loop work in python", 0, 2)

			blocks := strings.Split(got, "\n\n")
			if len(blocks) != 2 {
				t.Fatalf("expected 2 blocks, got %d: %q", len(blocks), got)
			}
			if !strings.HasPrefix(blocks[0], "Q: How do I write a for loop in Python?\nA: ") {
				t.Fatalf("unexpected first block %q", blocks[0])
			}
		})
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	r := New(newIndex(), StrategyVector, logger.Nop())
	first := r.Retrieve("coding", "what is a block of code", 500, 3)
	for i := 0; i < 10; i++ {
		if got := r.Retrieve("coding", "what is a block of code", 500, 3); got != first {
			t.Fatalf("run %d differs:\n%q\n%q", i, got, first)
		}
	}
}

func TestRetrieveNoOverlapIsEmpty(t *testing.T) {
	r := New(newIndex(), StrategyLexical, logger.Nop())
	if got := r.Retrieve("coding", "zebra xylophone", 1200, 3); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}

func TestRankStableTies(t *testing.T) {
	got := rank([]float64{1, 3, 1, 0, 3, 1}, 4)
	want := []int{1, 4, 0, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAssembleTruncation(t *testing.T) {
	long := corpus.Example{Prompt: "p", Answer: strings.Repeat("x", 300)}
	short := corpus.Example{Prompt: "q", Answer: "short"}
	examples := []corpus.Example{short, long}
	shortLen := utf8.RuneCountInString(short.Block())

	tests := []struct {
		name     string
		maxChars int
		wantLen  int
		blocks   int
	}{
		{"unbounded", 0, shortLen + 2 + utf8.RuneCountInString(long.Block()), 2},
		{"truncates last block", shortLen + 2 + 150, shortLen + 2 + 150, 2},
		{"drops useless remainder", shortLen + 2 + 99, shortLen, 1},
		{"exactly useful remainder", shortLen + 2 + 100, shortLen + 2 + 100, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assemble(examples, []int{0, 1}, tt.maxChars)
			if n := utf8.RuneCountInString(got); n != tt.wantLen {
				t.Fatalf("len = %d, want %d", n, tt.wantLen)
			}
			if n := len(strings.Split(got, "\n\n")); n != tt.blocks {
				t.Fatalf("blocks = %d, want %d", n, tt.blocks)
			}
			if tt.maxChars > 0 && utf8.RuneCountInString(got) > tt.maxChars {
				t.Fatalf("excerpt exceeds maxChars")
			}
		})
	}
}

func TestAssembleFirstBlockTooSmall(t *testing.T) {
	ex := []corpus.Example{{Prompt: "p", Answer: strings.Repeat("y", 500)}}
	if got := assemble(ex, []int{0}, 50); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
	if got := assemble(ex, []int{0}, 120); utf8.RuneCountInString(got) != 120 {
		t.Fatalf("expected 120 chars, got %d", utf8.RuneCountInString(got))
	}
}

// brokenScorer fails or panics on demand.
type brokenScorer struct{ panic bool }

func (brokenScorer) Name() string { return "broken" }

func (b brokenScorer) Score(string, string, []corpus.Example) ([]float64, error) {
	if b.panic {
		panic("index corrupted")
	}
	return nil, errors.New("no backend")
}

func TestRetrieveFallsBackToLexical(t *testing.T) {
	want := New(newIndex(), StrategyLexical, logger.Nop()).Retrieve("coding", "what is a variable", 1200, 1)
	if want == "" {
		t.Fatal("lexical baseline returned nothing")
	}

	for _, b := range []brokenScorer{{panic: false}, {panic: true}} {
		r := New(newIndex(), StrategyVector, logger.Nop())
		r.primary = b
		if got := r.Retrieve("coding", "what is a variable", 1200, 1); got != want {
			t.Fatalf("panic=%v: got %q, want %q", b.panic, got, want)
		}
	}
}

func TestLexicalWeightsRareTermsHigher(t *testing.T) {
	examples := []corpus.Example{
		{Prompt: "loop loop loop", Answer: "loop"},
		{Prompt: "loop", Answer: "once"},
	}
	scores, err := Lexical{}.Score("coding", "loop", examples)
	if err != nil {
		t.Fatal(err)
	}
	if !(scores[1] > scores[0]) {
		t.Fatalf("expected rarer occurrence to score higher, got %v", scores)
	}
	if scores[1] != 1 || scores[0] != 0.25 {
		t.Fatalf("unexpected scores %v", scores)
	}
}
