package llm

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "first answer", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "second answer"},
	)

	resp1, err := mock.Generate(context.Background(), Prompt("first", Params{MaxTokens: 10}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != "first answer" {
		t.Fatalf("expected %q, got %q", "first answer", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Prompt("second", Params{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != "second answer" {
		t.Fatalf("expected %q, got %q", "second answer", resp2.Text)
	}
	if mock.LastPrompt() != "second" {
		t.Fatalf("expected last prompt 'second', got %q", mock.LastPrompt())
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_Repeat(t *testing.T) {
	mock := RepeatingMock(MockResponse{Text: "again"})
	for i := 0; i < 3; i++ {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if resp.Text != "again" {
			t.Fatalf("call %d: got %q", i, resp.Text)
		}
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestMockProvider_CancelledContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "unused"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mock.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPromptBuildsSingleUserMessage(t *testing.T) {
	req := Prompt("explain loops", Params{MaxTokens: 300, Temperature: 0.7, TopP: 0.8, TopK: 40})
	if len(req.Messages) != 1 || req.Messages[0].Role != RoleUser {
		t.Fatalf("expected one user message, got %+v", req.Messages)
	}
	if req.Messages[0].Content != "explain loops" {
		t.Fatalf("unexpected content %q", req.Messages[0].Content)
	}
	if req.MaxTokens != 300 || req.TopK != 40 {
		t.Fatalf("params not carried: %+v", req.Params)
	}
}

// recordingRepo is an in-memory store.EventRepo.
type recordingRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryLLMRequests(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMRequest(context.Context, int64) (*store.LLMRequestEventRecord, error) {
	return nil, store.ErrNotFound
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Text: "ok", Usage: Usage{InputTokens: 12, OutputTokens: 3}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("quota exceeded")}},
	)
	p := WithLogging(mock, "mock", repo, logger.Nop())

	ctx := WithRequestID(WithPurpose(context.Background(), PurposeAnswer), "req-1")
	if _, err := p.Generate(ctx, Prompt("hello", Params{MaxTokens: 42})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Prompt("again", Params{})); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok := repo.events[0]
	if !ok.Success || ok.Purpose != PurposeAnswer || ok.RequestID != "req-1" {
		t.Errorf("unexpected success event: %+v", ok)
	}
	if ok.InputTokens != 12 || ok.ResponseBody != "ok" {
		t.Errorf("usage/response not recorded: %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "max_tokens=42") || !strings.Contains(ok.RequestBody, "hello") {
		t.Errorf("request body missing params or prompt: %q", ok.RequestBody)
	}

	failed := repo.events[1]
	if failed.Success || !strings.Contains(failed.ErrorMessage, "quota exceeded") {
		t.Errorf("unexpected failure event: %+v", failed)
	}
}

func TestLoggingProvider_RepoErrorDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Text: "fine"}), "mock", repo, nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "fine" {
		t.Fatalf("got %q", resp.Text)
	}
}

// slowProvider blocks until its context is done.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeoutProvider(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if p.ModelID() != "slow" {
		t.Fatalf("unexpected model id %q", p.ModelID())
	}

	if WithTimeout(slowProvider{}, 0) != (slowProvider{}) {
		t.Fatal("zero timeout should return the provider unchanged")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	p, err := NewProvider(context.Background(), cfg, nil, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text == "" {
		t.Fatal("expected mock text")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"gemini without key", func(c *Config) {}, true},
		{"gemini with key", func(c *Config) { c.Gemini.APIKey = "k" }, false},
		{"mock", func(c *Config) { c.Provider = "mock" }, false},
		{"openrouter without key", func(c *Config) { c.Provider = "openrouter" }, true},
		{"unknown", func(c *Config) { c.Provider = "x" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyVendorKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "explicit"
	cfg.ApplyVendorKeys()

	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("gemini key = %q, want from-env", cfg.Gemini.APIKey)
	}
	if cfg.OpenAI.APIKey != "explicit" {
		t.Errorf("explicit key overwritten: %q", cfg.OpenAI.APIKey)
	}
}

func TestEstimateCost(t *testing.T) {
	if got := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("cost = %v, want 0.75", got)
	}
	if got := EstimateCost("mock", 100, 100); got != 0 {
		t.Errorf("unknown model cost = %v, want 0", got)
	}
}
