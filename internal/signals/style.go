package signals

import "strings"

// Style is the requested verbosity of the reply.
type Style string

const (
	StyleBrief    Style = "brief"
	StyleStepwise Style = "stepwise"
	StyleStandard Style = "standard"
)

// Word-count cutoffs for the style heuristic. Empirically chosen.
const (
	BriefMaxWords    = 15
	StepwiseMinWords = 12
)

var briefMarkers = []string{
	"short", "brief", "one line", "one-line", "tl;dr", "define", "definition",
	"what is", "who is", "synonym", "antonym",
}

var stepwiseMarkers = []string{
	"detail", "detailed", "steps", "step by step", "kaise", "kesi",
	"explain", "roadmap", "plan",
}

// DetectStyle returns brief for brief phrasing or a question of at most
// BriefMaxWords words, stepwise for detailed phrasing or more than
// StepwiseMinWords words, and standard otherwise. Brief wins over
// stepwise.
func DetectStyle(text string) Style {
	lowered := strings.ToLower(text)
	words := len(strings.Fields(text))

	if containsAny(lowered, briefMarkers) || (strings.Contains(text, "?") && words <= BriefMaxWords) {
		return StyleBrief
	}
	if containsAny(lowered, stepwiseMarkers) || words > StepwiseMinWords {
		return StyleStepwise
	}
	return StyleStandard
}

// Output token budgets per style.
const (
	briefTokens    = 300
	stepwiseTokens = 500
	standardTokens = 400
)

// TokenBudget is the output token ceiling requested for a reply in s.
func (s Style) TokenBudget() int {
	switch s {
	case StyleBrief:
		return briefTokens
	case StyleStepwise:
		return stepwiseTokens
	default:
		return standardTokens
	}
}
