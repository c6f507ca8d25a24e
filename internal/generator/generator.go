// Package generator wraps the generation capability with a retry state
// machine for capacity failures and a deterministic offline fallback, so
// a tutoring request always ends with a non-empty reply.
package generator

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/messages"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

// State is the terminal state of one Generate call.
type State string

const (
	// StateSuccess means the model answered.
	StateSuccess State = "success"

	// StateExhausted means every attempt hit a capacity failure and the
	// offline fallback answered.
	StateExhausted State = "exhausted"

	// StateFailed means a hard failure ended the call on its first
	// occurrence; Text carries the apology.
	StateFailed State = "failed"
)

// Call is one generation request.
type Call struct {
	// Prompt is the full instruction text.
	Prompt string

	Params llm.Params

	// Subject and Query select the offline fallback.
	Subject string
	Query   string

	// Language renders the apology on hard failure.
	Language signals.Language

	// Purpose labels the provider event.
	Purpose string

	// NoRetry ends the call as Exhausted on the first capacity failure.
	NoRetry bool
}

// Outcome is the result of Generate. Text is never empty.
type Outcome struct {
	Text     string
	State    State
	Attempts int

	// Err is the last provider error; nil on success.
	Err error
}

// Succeeded reports whether the model itself produced Text.
func (o Outcome) Succeeded() bool {
	return o.State == StateSuccess
}

// Generator is safe for concurrent use.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator over provider.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Generator{
		provider: provider,
		cfg:      cfg,
		log:      log,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Generate runs the retry state machine for call:
//
//	Attempting(n) -> Success                on a reply with text
//	Attempting(n) -> Retrying(n+1)          on a capacity failure, n < MaxRetries
//	Attempting(n) -> Exhausted              on a capacity failure, n == MaxRetries
//	Attempting(n) -> Failed                 on any other failure
//
// An empty reply is a hard failure answered with the empty-reply apology.
// Cancellation while waiting ends the call as Failed.
func (g *Generator) Generate(ctx context.Context, call Call) Outcome {
	if call.Purpose != "" {
		ctx = llm.WithPurpose(ctx, call.Purpose)
	}
	log := g.log.With("purpose", call.Purpose, "request_id", llm.RequestIDFrom(ctx))
	maxRetries := g.cfg.MaxRetries
	if call.NoRetry {
		maxRetries = 0
	}

	for n := 0; ; n++ {
		resp, err := g.provider.Generate(ctx, llm.Prompt(call.Prompt, call.Params))
		if err == nil {
			if text := strings.TrimSpace(resp.Text); text != "" {
				return Outcome{Text: text, State: StateSuccess, Attempts: n + 1}
			}
			err = &llm.ErrInvalidResponse{Raw: resp.Text, Err: errEmptyReply}
		}

		if llm.Classify(err) != llm.FailureQuota {
			log.Warn("generation failed", "attempt", n+1, "error", err)
			return g.failed(call, n+1, err)
		}

		if n >= maxRetries {
			log.Warn("capacity retries exhausted, using offline answer", "attempts", n+1, "error", err)
			return Outcome{
				Text:     g.fallback(call.Subject, call.Query),
				State:    StateExhausted,
				Attempts: n + 1,
				Err:      err,
			}
		}

		wait := g.backoff(n, err)
		log.Info("capacity failure, retrying", "attempt", n+1, "wait", wait, "error", err)
		if serr := g.cfg.Sleep(ctx, wait); serr != nil {
			return g.failed(call, n+1, serr)
		}
	}
}

var errEmptyReply = errors.New("empty reply")

func (g *Generator) failed(call Call, attempts int, err error) Outcome {
	text := messages.Error(call.Language, messages.GenerationError, err)
	if errors.Is(err, errEmptyReply) {
		text = messages.Text(call.Language, messages.EmptyReply)
	}
	return Outcome{
		Text:     text,
		State:    StateFailed,
		Attempts: attempts,
		Err:      err,
	}
}

// backoff returns 2^n * BaseDelay plus jitter, or the provider's
// Retry-After hint when that is longer.
func (g *Generator) backoff(n int, err error) time.Duration {
	wait := g.cfg.BaseDelay << n
	if g.cfg.MaxJitter > 0 {
		g.mu.Lock()
		wait += time.Duration(g.rng.Int64N(int64(g.cfg.MaxJitter)))
		g.mu.Unlock()
	}

	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > wait {
		return rl.RetryAfter
	}
	return wait
}

func (g *Generator) pick(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}
