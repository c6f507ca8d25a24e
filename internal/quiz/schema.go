package quiz

import "github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"

// QuestionSchema is the shape of one authored question record.
var QuestionSchema = &llm.Schema{
	Name: "quiz-question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"question_type": map[string]any{
				"type": "string",
				"enum": []any{"multiple_choice", "fill_blank", "code_completion"},
			},
			"options": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
			"correct_answer": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"explanation": map[string]any{
				"type": "string",
			},
		},
		"required": []any{"question_text", "correct_answer"},
	},
}

// questionRecord is the decoded authored question before validation.
type questionRecord struct {
	QuestionText  string   `json:"question_text"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}
