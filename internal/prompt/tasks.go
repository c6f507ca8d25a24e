package prompt

import (
	"fmt"
	"strings"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

// Expand asks for a longer numbered rendition of answer in the same language.
func Expand(answer string, lang signals.Language) string {
	var b strings.Builder
	b.WriteString("Enhance this answer to be more detailed and educational.\n")
	b.WriteString("Provide 5-8 numbered steps with concrete actions.\n")
	fmt.Fprintf(&b, "Keep the same language (%s).\n\n", lang.Name())
	fmt.Fprintf(&b, "Original answer: %s\n\n", answer)
	b.WriteString("Enhanced detailed answer:")
	return b.String()
}

// Grade asks for a 0-100 rubric score of an open-ended quiz answer.
func Grade(question, studentAnswer, correctAnswer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate this student answer for the question: %q\n\n", question)
	fmt.Fprintf(&b, "Student Answer: %q\n", studentAnswer)
	fmt.Fprintf(&b, "Correct Answer: %q\n\n", correctAnswer)
	b.WriteString(`Rate the answer on a scale of 0-100 based on:
- Correctness (40%)
- Completeness (30%)
- Clarity (20%)
- Understanding demonstrated (10%)

Respond with just a number between 0-100.`)
	return b.String()
}

// Score asks for a 0-100 score of a free answer against a reference.
func Score(userAnswer, correctAnswer string) string {
	return fmt.Sprintf("Score user answer '%s' against correct '%s' on a scale 0-100. Respond with just the number.", userAnswer, correctAnswer)
}

// Author asks for one quiz question as a single JSON object, different
// from every question in prior.
func Author(subject, difficulty, questionType, template string, prior []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s level %s question for %s based on this template: %q\n\n", difficulty, questionType, subject, template)
	if len(prior) > 0 {
		b.WriteString("Do not repeat any of these questions:\n")
		for i, q := range prior {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
		b.WriteString("\n")
	}
	b.WriteString(`Requirements:
- Make it educational and clear
- Include specific examples or code snippets if applicable
- Ensure it tests understanding, not just memorization
- Provide 4 options for multiple choice questions
- Include the correct answer and explanation

Format the response as a single JSON object:
{
  "question_text": "The actual question",
`)
	fmt.Fprintf(&b, "  \"question_type\": %q,\n", questionType)
	b.WriteString(`  "options": ["option1", "option2", "option3", "option4"],
  "correct_answer": "The correct answer",
  "explanation": "Why this answer is correct"
}
Include "options" only for multiple_choice questions.`)
	return b.String()
}

// CodeAnalysis asks for a review of code written in language.
func CodeAnalysis(language, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s code and provide:\n", language)
	b.WriteString(`1. Any syntax or logical errors
2. Suggestions for improvement
3. Best practices recommendations
4. A corrected version if there are errors

Code to analyze:
`)
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", language, code)
	b.WriteString("Provide your analysis in a clear, educational format.")
	return b.String()
}

// Translate asks for analysis rendered in the informal register.
func Translate(analysis string) string {
	return "Translate this code analysis to Roman Urdu (Latin script only, no Arabic script):\n\n" +
		analysis +
		"\n\nProvide the same detailed analysis in Roman Urdu:"
}

// SessionName asks for a short title for a conversation opened by message.
func SessionName(message string) string {
	return "Generate a short session name (at most 6 words, no quotes) based on this prompt: " + message
}
