package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/messages"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/prompt"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

// DefaultCodeLanguage is assumed when a request names no language.
const DefaultCodeLanguage = "python"

var errNoAnalysis = errors.New("model produced no analysis")

// CodeAnalysis is the review of one code snippet. The code is never run.
type CodeAnalysis struct {
	SessionID     int64  `json:"session_id"`
	SessionName   string `json:"session_name"`
	Analysis      string `json:"analysis"`
	RomanAnalysis string `json:"roman_analysis"`
	HasError      bool   `json:"has_error"`
	Language      string `json:"language"`
}

// AnalyzeCode reviews code and records the request as a code session for
// the learner. The informal-register translation is best effort.
func (e *Engine) AnalyzeCode(ctx context.Context, userID int64, code, language string) (*CodeAnalysis, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidRequest)
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultCodeLanguage
	}
	if _, err := e.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	id := requestID(ctx)
	ctx = llm.WithRequestID(ctx, id)
	log := e.log.With("request_id", id, "code_language", language)

	res := &CodeAnalysis{Language: language}
	out := e.gen.Generate(ctx, generator.Call{
		Prompt:   prompt.CodeAnalysis(language, code),
		Params:   generator.CodeReviewParams,
		Subject:  "coding",
		Query:    code,
		Language: signals.English,
		Purpose:  llm.PurposeCodeReview,
	})
	if out.Succeeded() {
		res.Analysis = out.Text
		res.HasError = MentionsError(out.Text)
		res.RomanAnalysis = e.translate(ctx, out.Text)
	} else {
		err := out.Err
		if err == nil {
			err = errNoAnalysis
		}
		log.Warn("code analysis failed", "state", out.State, "error", err)
		res.Analysis = messages.Error(signals.English, messages.CodeAnalysisError, err)
		res.RomanAnalysis = messages.Error(signals.RomanUrdu, messages.CodeAnalysisError, err)
		res.HasError = true
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	cs := &model.CodeSession{
		UserID:    userID,
		Name:      CodeSessionName(language, now),
		Language:  language,
		CodeInput: code,
		Response:  res.Analysis,
		CreatedAt: now,
	}
	if err := e.codeSessions.Create(ctx, cs); err != nil {
		return nil, err
	}
	res.SessionID = cs.ID
	res.SessionName = cs.Name
	log.Info("code analyzed", "has_error", res.HasError, "code_session", cs.ID)
	return res, nil
}

func (e *Engine) translate(ctx context.Context, analysis string) string {
	out := e.gen.Generate(ctx, generator.Call{
		Prompt:   prompt.Translate(analysis),
		Params:   generator.TranslateParams,
		Subject:  "coding",
		Query:    analysis,
		Language: signals.RomanUrdu,
		Purpose:  llm.PurposeTranslate,
	})
	if !out.Succeeded() {
		e.log.Warn("translation failed", "state", out.State, "error", out.Err)
		return messages.Text(signals.English, messages.TranslationUnavailable)
	}
	return out.Text
}

// MentionsError reports whether an analysis points out a problem.
func MentionsError(analysis string) bool {
	lower := strings.ToLower(analysis)
	return strings.Contains(lower, "error") || strings.Contains(lower, "incorrect")
}

// CodeSessionName names a code session, e.g. "PYTHON Debug - 2026-01-02 15:04".
func CodeSessionName(language string, at time.Time) string {
	return fmt.Sprintf("%s Debug - %s", strings.ToUpper(language), at.Format("2006-01-02 15:04"))
}

// CodeSessions lists the learner's code-analysis history, newest first.
func (e *Engine) CodeSessions(ctx context.Context, userID int64) ([]model.CodeSession, error) {
	return e.codeSessions.ListByUser(ctx, userID)
}
