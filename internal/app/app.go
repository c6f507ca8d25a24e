// Package app assembles the tutor's components from configuration. The
// cobra commands share one assembly path.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/api"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/config"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/corpus"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/quiz"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/retrieval"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/tutor"
)

// App owns the long-lived components. Close releases the store.
type App struct {
	Config   config.Config
	Log      *logger.Logger
	Store    *store.Store
	Index    *corpus.Index
	Provider llm.Provider
	Engine   *tutor.Engine
	Quizzes  *quiz.Service
}

// OpenStore opens the configured database, creating its directory.
func OpenStore(cfg config.Config) (*store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		path = p
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// New builds every component. A provider built here records each call as
// an LLM request event.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg.ProviderConfig(), st.EventRepo(), log)
	if err != nil {
		st.Close()
		return nil, err
	}

	opts := cfg.CorpusOptions()
	opts.Log = log
	index := corpus.NewIndex(cfg.Corpus.Dir, cfg.Corpus.Subjects, opts)

	genCfg := cfg.GeneratorConfig()
	gen := generator.New(provider, genCfg, log)
	engine := tutor.New(tutor.Deps{
		Retriever:    retrieval.New(index, cfg.Strategy(), log),
		Generator:    gen,
		Users:        st.Users(),
		Sessions:     st.Sessions(),
		CodeSessions: st.CodeSessions(),
		Log:          log,
	}, cfg.TutorConfig())

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    st,
		Index:    index,
		Provider: provider,
		Engine:   engine,
		Quizzes:  quiz.NewService(st.Quizzes(), st.Users(), gen, genCfg.Seed, log),
	}, nil
}

// API returns the HTTP surface over the assembled components.
func (a *App) API() *api.Server {
	return api.New(a.Engine, a.Quizzes, a.Store.Users(), a.Log)
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
