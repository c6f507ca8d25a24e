// Package tutor handles one tutoring request end to end: safety and
// greeting shortcuts, signal detection, retrieval, prompt composition,
// resilient generation and refinement. It also hosts the conversation
// flow, code analysis and free-answer scoring built on the same pipeline.
package tutor

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/messages"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/prompt"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/refine"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/retrieval"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

// Config bounds the retrieved context.
type Config struct {
	MaxContextChars int
	TopK            int
}

// DefaultConfig returns the standard retrieval bounds.
func DefaultConfig() Config {
	return Config{MaxContextChars: 800, TopK: 3}
}

// Generator is the resilient generation capability.
type Generator interface {
	Generate(ctx context.Context, call generator.Call) generator.Outcome
}

// Kind says how a reply was produced.
type Kind string

const (
	KindAnswer   Kind = "answer"
	KindFallback Kind = "fallback"
	KindError    Kind = "error"
	KindGreeting Kind = "greeting"
	KindRefusal  Kind = "refusal"
	KindNoTopic  Kind = "select-subject"
)

// Reply is the engine's answer to one query. Text is never empty.
type Reply struct {
	RequestID string
	Text      string
	Kind      Kind
	Profile   signals.Profile
}

// Deps are the collaborators of an Engine. Repositories may be nil when
// only Respond is used.
type Deps struct {
	Retriever    *retrieval.Retriever
	Generator    Generator
	Users        store.UserRepo
	Sessions     store.SessionRepo
	CodeSessions store.CodeSessionRepo
	Log          *logger.Logger
}

// Engine is safe for concurrent use.
type Engine struct {
	retriever    *retrieval.Retriever
	gen          Generator
	refiner      *refine.Refiner
	users        store.UserRepo
	sessions     store.SessionRepo
	codeSessions store.CodeSessionRepo
	cfg          Config
	log          *logger.Logger
}

// New creates an Engine.
func New(deps Deps, cfg Config) *Engine {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		retriever:    deps.Retriever,
		gen:          deps.Generator,
		refiner:      refine.New(deps.Generator, log),
		users:        deps.Users,
		sessions:     deps.Sessions,
		codeSessions: deps.CodeSessions,
		cfg:          cfg,
		log:          log,
	}
}

// Respond answers query for subject. explicitLanguage may be "" or "auto"
// to reply in the detected language.
func (e *Engine) Respond(ctx context.Context, subject, query, explicitLanguage string) Reply {
	id := requestID(ctx)
	ctx = llm.WithRequestID(ctx, id)
	log := e.log.With("request_id", id, "subject", subject)

	if err := signals.CheckSafety(query); err != nil {
		log.Info("query refused", "reason", err)
		return Reply{RequestID: id, Text: messages.Text(signals.English, messages.Refusal), Kind: KindRefusal}
	}

	if ok, informal := signals.Greeting(query); ok {
		lang := signals.English
		if informal {
			lang = signals.RomanUrdu
		}
		return Reply{RequestID: id, Text: messages.Text(lang, messages.Greeting), Kind: KindGreeting}
	}

	var (
		profile signals.Profile
		excerpt string
	)
	var eg errgroup.Group
	eg.Go(func() error {
		profile = signals.Detect(query, explicitLanguage)
		return nil
	})
	eg.Go(func() error {
		if e.retriever != nil {
			excerpt = e.retriever.Retrieve(subject, query, e.cfg.MaxContextChars, e.cfg.TopK)
		}
		return nil
	})
	_ = eg.Wait()

	log.Debug("signals detected", "language", profile.Language.Tag.String(), "emotion", profile.Emotion,
		"confidence", profile.Confidence, "style", profile.Style, "context_chars", len(excerpt))

	out := e.gen.Generate(ctx, generator.Call{
		Prompt:   prompt.Compose(subject, query, excerpt, profile),
		Params:   generator.AnswerParams(profile.Style),
		Subject:  subject,
		Query:    query,
		Language: profile.Language,
		Purpose:  llm.PurposeAnswer,
	})

	reply := Reply{RequestID: id, Text: out.Text, Profile: profile}
	switch out.State {
	case generator.StateSuccess:
		reply.Kind = KindAnswer
		reply.Text = e.refiner.Refine(ctx, refine.Input{
			Text:     out.Text,
			Style:    profile.Style,
			Language: profile.Language,
			Subject:  subject,
			Query:    query,
		})
	case generator.StateExhausted:
		reply.Kind = KindFallback
	default:
		reply.Kind = KindError
	}
	log.Info("query answered", "kind", reply.Kind, "attempts", out.Attempts)
	return reply
}

// requestID reuses a correlation ID already on ctx, so a caller such as
// the HTTP layer can fix it, and otherwise generates one.
func requestID(ctx context.Context) string {
	if id := llm.RequestIDFrom(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
