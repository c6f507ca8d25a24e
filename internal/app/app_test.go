package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/config"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/tutor"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	corpusDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(filepath.Join(corpusDir, "coding"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "coding", "train_clean.jsonl"),
		[]byte(`{"prompt": "What is a variable?", "response": "A variable stores a value."}`+"\n"), 0o644))

	var cfg config.Config
	cfg.Store.Path = filepath.Join(dir, "db", "tutor.db")
	cfg.Corpus.Dir = corpusDir
	cfg.Corpus.Subjects = []string{"coding"}
	cfg.Corpus.Strategy = "lexical"
	cfg.Retrieval.MaxChars = 800
	cfg.Retrieval.TopK = 3
	cfg.LLM.Provider = "mock"
	cfg.Generation.MaxRetries = 1
	cfg.Generation.BaseDelay = time.Millisecond
	cfg.Generation.Seed = 1
	return cfg
}

func TestNewAssemblesAndRecordsEvents(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	reply := a.Engine.Respond(llm.WithRequestID(ctx, "req-42"), "coding", "What is a variable?", "")
	assert.Equal(t, tutor.KindAnswer, reply.Kind)
	assert.Equal(t, "This is a mock tutoring answer.", reply.Text)
	assert.Len(t, a.Index.Examples("coding"), 1)

	events, err := a.Store.EventRepo().QueryLLMRequests(ctx, store.QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, llm.PurposeAnswer, events[0].Purpose)
	assert.Equal(t, "req-42", events[0].RequestID)
	assert.True(t, events[0].Success)
	assert.NotNil(t, a.API())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = "carrier-pigeon"
	_, err := New(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
