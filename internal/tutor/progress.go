package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/prompt"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/quiz"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

// ProgressUpdate is the result of scoring one free answer.
type ProgressUpdate struct {
	Subject  string  `json:"subject"`
	Score    int     `json:"score"`
	NewScore float64 `json:"new_score"`
}

// UpdateProgress scores userAnswer against correctAnswer and folds the
// score into the learner's progress for subject as (old + score) / 2. A
// subject with no progress yet starts from 0.
func (e *Engine) UpdateProgress(ctx context.Context, userID int64, subject, userAnswer, correctAnswer string) (*ProgressUpdate, error) {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	}
	if _, err := e.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	ctx = llm.WithRequestID(ctx, requestID(ctx))
	score := quiz.DefaultScore
	out := e.gen.Generate(ctx, generator.Call{
		Prompt:   prompt.Score(userAnswer, correctAnswer),
		Params:   generator.GradeParams,
		Subject:  subject,
		Query:    userAnswer,
		Language: signals.English,
		Purpose:  llm.PurposeScoreAnswer,
	})
	if out.Succeeded() {
		score = quiz.ParseScore(out.Text)
	} else {
		e.log.Warn("answer scoring failed, using default", "subject", subject, "state", out.State, "error", out.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	updated, err := e.users.UpdateProgress(ctx, userID, subject, func(old float64, _ bool) float64 {
		return quiz.Smooth(old, score)
	})
	if err != nil {
		return nil, err
	}
	return &ProgressUpdate{Subject: subject, Score: score, NewScore: updated}, nil
}
