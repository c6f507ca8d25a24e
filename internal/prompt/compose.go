// Package prompt renders every instruction text sent to the generation
// capability. All functions are pure: equal inputs give byte-identical
// output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

// ScaffoldPrefixes are the lowercase line prefixes of the instruction
// scaffold. A reply line starting with one of them is echoed scaffold.
var ScaffoldPrefixes = []string{
	"you are",
	"important instructions:",
	"instructions:",
	"context:",
	"background examples",
	"emotion detected:",
	"tone adjustment:",
	"student question:",
	"reply only",
}

const tutorInstructions = `2. Be educational and helpful
3. Provide step-by-step explanations when detailed answers are requested
4. Keep responses concise for simple questions
5. Do NOT repeat instructions or add meta-commentary
6. Focus on the student's learning needs`

// Compose builds the tutoring prompt for one question. The learner query
// is embedded last and unmodified.
func Compose(subject, query, context string, profile signals.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert %s tutor. Your role is to provide clear, educational responses.\n\n", subject)

	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString(languageRule(profile.Language))
	b.WriteString("\n")
	b.WriteString(tutorInstructions)
	b.WriteString("\n")

	if profile.SteersTone() {
		b.WriteString("\n")
		b.WriteString(emotionBlock(profile.Emotion, profile.Confidence))
	}

	if context != "" {
		b.WriteString("\nBackground examples (for reference only, do not copy them verbatim):\n<<<\n")
		b.WriteString(context)
		b.WriteString("\n>>>\n")
	}

	b.WriteString("\n")
	b.WriteString(styleLine(profile.Style))
	b.WriteString("\n\nStudent Question: ")
	b.WriteString(query)

	return b.String()
}

func languageRule(lang signals.Language) string {
	if lang.Informal() {
		return fmt.Sprintf("1. Reply ONLY in %s - use Latin script for Roman Urdu, NO Arabic/Urdu script", lang.Name())
	}
	return fmt.Sprintf("1. Reply ONLY in %s - do not mix scripts or languages", lang.Name())
}

func emotionBlock(e signals.Emotion, confidence float64) string {
	tone := signals.ToneFor(e)

	var b strings.Builder
	fmt.Fprintf(&b, "EMOTION DETECTED: %s (confidence: %.0f%%)\n\n", strings.ToUpper(string(e)), confidence*100)
	b.WriteString("TONE ADJUSTMENT:\n")
	fmt.Fprintf(&b, "- Use %s tone\n", tone.Tone)
	fmt.Fprintf(&b, "- Style: %s\n", tone.Style)
	if tone.Prefix != "" {
		fmt.Fprintf(&b, "- Start with: %s\n", tone.Prefix)
	}
	fmt.Fprintf(&b, "- Emphasis: %s\n", tone.Emphasis)
	return b.String()
}

func styleLine(s signals.Style) string {
	switch s {
	case signals.StyleBrief:
		return fmt.Sprintf("Keep response brief (1-2 sentences, under %d tokens)", s.TokenBudget())
	case signals.StyleStepwise:
		return fmt.Sprintf("Provide detailed step-by-step explanation with examples (up to %d tokens)", s.TokenBudget())
	default:
		return fmt.Sprintf("Provide clear, helpful explanation (up to %d tokens)", s.TokenBudget())
	}
}
