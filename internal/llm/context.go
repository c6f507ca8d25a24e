package llm

import "context"

type contextKey string

const (
	purposeKey   contextKey = "llm_purpose"
	requestIDKey contextKey = "llm_request_id"
)

// Purpose labels recorded with every LLM request event.
const (
	PurposeAnswer      = "answer"
	PurposeExpand      = "expand"
	PurposeQuizAuthor  = "quiz-author"
	PurposeQuizGrade   = "quiz-grade"
	PurposeScoreAnswer = "score-answer"
	PurposeCodeReview  = "code-review"
	PurposeTranslate   = "translate"
	PurposeSessionName = "session-name"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithRequestID attaches the correlation ID of the tutoring request that
// triggered the call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom extracts the correlation ID, or "" when none is set.
func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
