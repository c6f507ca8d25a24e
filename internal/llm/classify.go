package llm

import (
	"context"
	"errors"
	"strings"
)

// FailureKind classifies a failed generation call.
type FailureKind string

const (
	FailureNone  FailureKind = "none"
	FailureQuota FailureKind = "quota"
	FailureOther FailureKind = "other"
)

// quotaIndicators are matched case-insensitively against error messages.
// Vendors disagree on typed errors for quota exhaustion, so the message is
// the only signal common to all of them.
var quotaIndicators = []string{
	"429",
	"quota",
	"rate limit",
	"ratelimit",
	"rate_limit",
	"too many requests",
	"billing",
	"free tier",
	"resource exhausted",
	"resource_exhausted",
}

// Classify maps a generation error to a FailureKind. A nil error is
// FailureNone. Cancellation is never a capacity failure.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FailureOther
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return FailureQuota
	}

	msg := strings.ToLower(err.Error())
	for _, ind := range quotaIndicators {
		if strings.Contains(msg, ind) {
			return FailureQuota
		}
	}
	return FailureOther
}
