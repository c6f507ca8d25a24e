package prompt

import (
	"strings"
	"testing"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

func TestComposeDeterministic(t *testing.T) {
	p := signals.Detect("I'm stuck, why does my loop not stop?", "")
	first := Compose("coding", "I'm stuck, why does my loop not stop?", "Q: a\nA: b", p)
	for i := 0; i < 5; i++ {
		if got := Compose("coding", "I'm stuck, why does my loop not stop?", "Q: a\nA: b", p); got != first {
			t.Fatalf("Compose not deterministic:\n%s\n---\n%s", first, got)
		}
	}
}

func TestComposeQueryLastAndVerbatim(t *testing.T) {
	query := "  Explain\n\tthis   code  "
	got := Compose("coding", query, "", signals.Detect(query, ""))
	if !strings.HasSuffix(got, "Student Question: "+query) {
		t.Fatalf("query not embedded verbatim at the end:\n%q", got)
	}
}

func TestComposeContextBlock(t *testing.T) {
	p := signals.Profile{Language: signals.English, Emotion: signals.Neutral, Confidence: 0.5, Style: signals.StyleStandard}

	with := Compose("math", "derivative of x^2", "Q: d/dx x\nA: 1", p)
	if !strings.Contains(with, "Background examples") || !strings.Contains(with, "Q: d/dx x\nA: 1") {
		t.Errorf("context block missing:\n%s", with)
	}

	without := Compose("math", "derivative of x^2", "", p)
	if strings.Contains(without, "Background examples") {
		t.Errorf("empty context rendered a block:\n%s", without)
	}
}

func TestComposeEmotionThreshold(t *testing.T) {
	base := signals.Profile{Language: signals.English, Emotion: signals.Frustrated, Style: signals.StyleStandard}

	high := base
	high.Confidence = 0.6
	got := Compose("coding", "q", "", high)
	if !strings.Contains(got, "EMOTION DETECTED: FRUSTRATED (confidence: 60%)") {
		t.Errorf("emotion block missing:\n%s", got)
	}
	if !strings.Contains(got, "- Use supportive and encouraging tone") {
		t.Errorf("tone line missing:\n%s", got)
	}

	low := base
	low.Confidence = 0.29
	if got := Compose("coding", "q", "", low); strings.Contains(got, "EMOTION DETECTED") {
		t.Errorf("emotion block rendered below threshold:\n%s", got)
	}
}

func TestComposeNeutralOmitsPrefix(t *testing.T) {
	p := signals.Profile{Language: signals.English, Emotion: signals.Neutral, Confidence: 0.5, Style: signals.StyleStandard}
	got := Compose("physics", "q", "", p)
	if strings.Contains(got, "- Start with:") {
		t.Errorf("neutral emotion rendered a prefix line:\n%s", got)
	}
}

func TestComposeLanguageRule(t *testing.T) {
	informal := signals.Profile{Language: signals.RomanUrdu, Style: signals.StyleBrief}
	got := Compose("coding", "q", "", informal)
	if !strings.Contains(got, "Reply ONLY in Roman Urdu (Latin script) - use Latin script for Roman Urdu, NO Arabic/Urdu script") {
		t.Errorf("informal language rule missing:\n%s", got)
	}

	standard := signals.Profile{Language: signals.English, Style: signals.StyleBrief}
	if got := Compose("coding", "q", "", standard); !strings.Contains(got, "Reply ONLY in English") {
		t.Errorf("standard language rule missing:\n%s", got)
	}
}

func TestComposeStyleLine(t *testing.T) {
	tests := []struct {
		style signals.Style
		want  string
	}{
		{signals.StyleBrief, "Keep response brief (1-2 sentences, under 300 tokens)"},
		{signals.StyleStepwise, "Provide detailed step-by-step explanation with examples (up to 500 tokens)"},
		{signals.StyleStandard, "Provide clear, helpful explanation (up to 400 tokens)"},
	}
	for _, tt := range tests {
		got := Compose("coding", "q", "", signals.Profile{Language: signals.English, Style: tt.style})
		if !strings.Contains(got, tt.want) {
			t.Errorf("style %s: missing %q", tt.style, tt.want)
		}
	}
}

func TestComposeDoesNotMutateProfile(t *testing.T) {
	p := signals.Profile{Language: signals.English, Emotion: signals.Curious, Confidence: 0.75, Style: signals.StyleBrief}
	before := p
	_ = Compose("coding", "q", "ctx", p)
	if p != before {
		t.Fatalf("profile changed: %+v -> %+v", before, p)
	}
}

func TestTaskPrompts(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want []string
	}{
		{"expand", Expand("Loops repeat.", signals.RomanUrdu), []string{"5-8 numbered steps", "(Roman Urdu (Latin script))", "Original answer: Loops repeat."}},
		{"grade", Grade("What is 2+2?", "four", "4"), []string{"Correctness (40%)", "Understanding demonstrated (10%)", `Student Answer: "four"`}},
		{"score", Score("a", "b"), []string{"'a'", "'b'", "0-100"}},
		{"author", Author("math", "beginner", "fill_blank", "The value of {expression} equals ___", []string{"What is 2+2?"}), []string{"beginner level fill_blank question for math", `"question_type": "fill_blank"`, "Do not repeat any of these questions:\n1. What is 2+2?"}},
		{"code", CodeAnalysis("go", "func main() {}"), []string{"Analyze this go code", "```go\nfunc main() {}\n```"}},
		{"translate", Translate("No errors."), []string{"Roman Urdu (Latin script only, no Arabic script)", "No errors."}},
		{"name", SessionName("how do loops work"), []string{"session name", "how do loops work"}},
	}
	for _, tt := range tests {
		for _, w := range tt.want {
			if !strings.Contains(tt.got, w) {
				t.Errorf("%s: missing %q in\n%s", tt.name, w, tt.got)
			}
		}
	}
}
