// Package refine post-processes raw model replies: it strips echoed
// instruction scaffold, drops repeated sentences and re-expands replies
// that came back too short for a stepwise request.
package refine

import (
	"context"
	"strings"
	"unicode"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/messages"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/prompt"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

const (
	// ExpansionMinWords is the word count below which a stepwise reply is
	// re-expanded. Empirically chosen.
	ExpansionMinWords = 50

	// ExpansionKeepRatio is the share of the original word count the
	// expanded reply must reach to replace it.
	ExpansionKeepRatio = 0.8
)

// Generator is the capability used for the expansion pass.
type Generator interface {
	Generate(ctx context.Context, call generator.Call) generator.Outcome
}

// Refiner never fails: every error in the expansion pass keeps the
// cleaned reply.
type Refiner struct {
	gen Generator
	log *logger.Logger
}

// New creates a Refiner. gen may be nil to disable expansion.
func New(gen Generator, log *logger.Logger) *Refiner {
	if log == nil {
		log = logger.Nop()
	}
	return &Refiner{gen: gen, log: log}
}

// Input is one reply to refine.
type Input struct {
	Text     string
	Style    signals.Style
	Language signals.Language

	// Subject and Query are forwarded to the expansion call.
	Subject string
	Query   string
}

// Refine cleans in.Text and, for a stepwise reply under
// ExpansionMinWords words, asks once for an expanded version. The result
// is never empty.
func (r *Refiner) Refine(ctx context.Context, in Input) string {
	cleaned := Clean(in.Text)

	if in.Style == signals.StyleStepwise && r.gen != nil && cleaned != "" {
		cleaned = r.expand(ctx, in, cleaned)
	}

	if cleaned == "" {
		return messages.Text(in.Language, messages.EmptyReply)
	}
	return cleaned
}

func (r *Refiner) expand(ctx context.Context, in Input, cleaned string) string {
	words := len(strings.Fields(cleaned))
	if words >= ExpansionMinWords {
		return cleaned
	}

	out := r.gen.Generate(ctx, generator.Call{
		Prompt:   prompt.Expand(cleaned, in.Language),
		Params:   generator.ExpandParams,
		Subject:  in.Subject,
		Query:    in.Query,
		Language: in.Language,
		Purpose:  llm.PurposeExpand,
	})
	if !out.Succeeded() {
		r.log.Warn("expansion skipped", "state", out.State, "error", out.Err)
		return cleaned
	}

	expanded := Clean(out.Text)
	if float64(len(strings.Fields(expanded))) < ExpansionKeepRatio*float64(words) {
		r.log.Debug("expansion rejected as shorter", "original_words", words)
		return cleaned
	}
	return expanded
}

// Clean drops blank lines, strips leading lines that echo the prompt
// scaffold and removes repeated sentences, keeping first occurrences.
func Clean(text string) string {
	lines := nonBlankLines(text)
	for len(lines) > 0 && isScaffold(lines[0]) {
		lines = lines[1:]
	}
	return dedupSentences(lines)
}

func nonBlankLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, strings.TrimRight(l, " \t\r"))
		}
	}
	return out
}

func isScaffold(line string) bool {
	lowered := strings.ToLower(strings.TrimSpace(line))
	for _, p := range prompt.ScaffoldPrefixes {
		if strings.HasPrefix(lowered, p) {
			return true
		}
	}
	return false
}

func dedupSentences(lines []string) string {
	seen := make(map[string]bool)
	var kept []string
	for _, line := range lines {
		var b strings.Builder
		for _, s := range sentences(line) {
			key := strings.TrimSpace(s)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			b.WriteString(s)
		}
		if l := strings.TrimSpace(b.String()); l != "" {
			kept = append(kept, leadingSpace(line)+l)
		}
	}
	return strings.Join(kept, "\n")
}

// sentences splits line after '.', '!' or '?' followed by whitespace.
// A period after a digit does not end a sentence so list markers such as
// "1." stay with their item. Trailing whitespace stays with its sentence.
func sentences(line string) []string {
	runes := []rune(line)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes, i) {
			continue
		}
		j := i + 1
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			continue
		}
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		out = append(out, string(runes[start:j]))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminator(runes []rune, i int) bool {
	switch runes[i] {
	case '!', '?':
		return true
	case '.':
		return i == 0 || !unicode.IsDigit(runes[i-1])
	}
	return false
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
