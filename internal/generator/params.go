package generator

import (
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

// AnswerParams are the sampling parameters of a tutoring reply in style s.
func AnswerParams(s signals.Style) llm.Params {
	return llm.Params{
		MaxTokens:   s.TokenBudget(),
		Temperature: 0.7,
		TopP:        0.8,
		TopK:        40,
	}
}

// Sampling parameters of the auxiliary calls.
var (
	ExpandParams      = llm.Params{MaxTokens: 400, Temperature: 0.6}
	AuthorParams      = llm.Params{MaxTokens: 500, Temperature: 0.7, TopP: 0.8, TopK: 40}
	GradeParams       = llm.Params{MaxTokens: 16, Temperature: 0.1}
	CodeReviewParams  = llm.Params{MaxTokens: 600, Temperature: 0.3}
	TranslateParams   = llm.Params{MaxTokens: 600, Temperature: 0.4}
	SessionNameParams = llm.Params{MaxTokens: 32, Temperature: 0.7}
)
