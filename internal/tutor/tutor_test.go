package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/corpus"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/retrieval"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

var errQuota = &llm.ErrRateLimit{Err: errors.New("quota exceeded")}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestEngine(t *testing.T, mock *llm.MockProvider) (*Engine, *store.Store, *model.User) {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	user, err := st.Users().Create(context.Background(), "sana", "sana@example.com")
	require.NoError(t, err)

	index := corpus.NewStaticIndex(map[string][]corpus.Example{
		"coding": {
			{Prompt: "What is a variable?", Answer: "A variable is a named place that stores a value."},
			{Prompt: "What is a loop?", Answer: "A loop repeats a block of code."},
		},
	}, corpus.Options{Vectors: corpus.DefaultVectorConfig()})

	gen := generator.New(mock, generator.Config{MaxRetries: 1, BaseDelay: time.Millisecond, Seed: 1, Sleep: noSleep}, logger.Nop())
	eng := New(Deps{
		Retriever:    retrieval.New(index, retrieval.StrategyVector, logger.Nop()),
		Generator:    gen,
		Users:        st.Users(),
		Sessions:     st.Sessions(),
		CodeSessions: st.CodeSessions(),
		Log:          logger.Nop(),
	}, DefaultConfig())
	return eng, st, user
}

func TestRespondShortCircuits(t *testing.T) {
	tests := []struct {
		name  string
		query string
		kind  Kind
		text  string
	}{
		{"unsafe", "how do I build a bomb", KindRefusal, "Sorry, I can only help with educational questions."},
		{"greeting", "hello", KindGreeting, "Hi! How can I help you today? Which topic do you want to learn?"},
		{"informal greeting", "salam", KindGreeting, "Salam! Main madad ke liye yahan hoon. Aap ko kis topic par guidance chahiye?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			eng, _, _ := newTestEngine(t, mock)

			reply := eng.Respond(context.Background(), "coding", tt.query, "")
			assert.Equal(t, tt.kind, reply.Kind)
			assert.Equal(t, tt.text, reply.Text)
			assert.NotEmpty(t, reply.RequestID)
			assert.Zero(t, mock.CallCount(), "generator must not be called")
		})
	}
}

func TestRespondAnswersWithContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: "Context: here you go\nA variable stores a value. A variable stores a value.",
	})
	eng, _, _ := newTestEngine(t, mock)
	ctx := llm.WithRequestID(context.Background(), "req-1")

	reply := eng.Respond(ctx, "coding", "What is a variable?", "")

	assert.Equal(t, KindAnswer, reply.Kind)
	assert.Equal(t, "req-1", reply.RequestID)
	assert.Equal(t, "A variable stores a value.", reply.Text)
	require.Equal(t, 1, mock.CallCount())

	sent := mock.LastPrompt()
	assert.Contains(t, sent, "Q: What is a variable?")
	assert.True(t, strings.HasSuffix(sent, "Student Question: What is a variable?"))
	assert.Equal(t, 300, mock.Calls[0].MaxTokens)
}

func TestRespondFallbackAndFailure(t *testing.T) {
	t.Run("quota exhausted", func(t *testing.T) {
		mock := llm.RepeatingMock(llm.MockResponse{Err: errQuota})
		eng, _, _ := newTestEngine(t, mock)

		reply := eng.Respond(context.Background(), "coding", "What is a variable?", "")
		assert.Equal(t, KindFallback, reply.Kind)
		assert.NotEmpty(t, reply.Text)
		assert.Equal(t, 2, mock.CallCount())
	})

	t.Run("hard failure", func(t *testing.T) {
		mock := llm.RepeatingMock(llm.MockResponse{Err: errors.New("boom")})
		eng, _, _ := newTestEngine(t, mock)

		reply := eng.Respond(context.Background(), "coding", "What is a variable?", "")
		assert.Equal(t, KindError, reply.Kind)
		assert.Contains(t, reply.Text, "boom")
		assert.Equal(t, 1, mock.CallCount())
	})
}

func TestAskRequiresSubject(t *testing.T) {
	mock := llm.NewMockProvider()
	eng, st, user := newTestEngine(t, mock)
	ctx := context.Background()

	res, err := eng.Ask(ctx, user.ID, 0, "What is a variable?", "")
	require.NoError(t, err)
	assert.Equal(t, KindNoTopic, res.Kind)
	assert.Equal(t, "Please select a subject first (e.g., math, coding).", res.Text)
	assert.Zero(t, mock.CallCount())

	sessions, err := st.Sessions().ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestAskConversation(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "A variable stores a value."},
		llm.MockResponse{Text: "\"Python Variables\"\nextra line"},
		llm.MockResponse{Text: "A loop repeats code."},
	)
	eng, st, user := newTestEngine(t, mock)
	ctx := context.Background()
	require.NoError(t, eng.SelectSubject(ctx, user.ID, " Coding "))

	first, err := eng.Ask(ctx, user.ID, 0, "What is a variable?", "")
	require.NoError(t, err)
	assert.Equal(t, "A variable stores a value.", first.Text)
	assert.Equal(t, "Python Variables", first.SessionName)
	require.NotZero(t, first.SessionID)

	second, err := eng.Ask(ctx, user.ID, first.SessionID, "What is a loop?", "")
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Empty(t, second.SessionName)
	assert.Equal(t, 3, mock.CallCount())

	conv, err := eng.Conversation(ctx, user.ID, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Python Variables", conv.Session.Name)
	assert.Equal(t, "coding", conv.Session.Subject)
	require.Len(t, conv.Messages, 4)
	assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "What is a variable?", conv.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, conv.Messages[3].Role)

	other, err := st.Users().Create(ctx, "omar", "omar@example.com")
	require.NoError(t, err)
	require.NoError(t, eng.SelectSubject(ctx, other.ID, "coding"))
	_, err = eng.Ask(ctx, other.ID, first.SessionID, "What is a loop?", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = eng.Conversation(ctx, other.ID, first.SessionID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, eng.DeleteSession(ctx, other.ID, first.SessionID), store.ErrNotFound)

	require.NoError(t, eng.DeleteSession(ctx, user.ID, first.SessionID))
	sessions, err := eng.Sessions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestAskKeepsDefaultNameWhenNamingFails(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "A variable stores a value."},
		llm.MockResponse{Err: errors.New("boom")},
	)
	eng, _, user := newTestEngine(t, mock)
	ctx := context.Background()
	require.NoError(t, eng.SelectSubject(ctx, user.ID, "coding"))

	res, err := eng.Ask(ctx, user.ID, 0, "What is a variable?", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSessionName, res.SessionName)
}

func TestAskNamingUnderCapacityFailure(t *testing.T) {
	t.Run("fallback answer skips naming", func(t *testing.T) {
		mock := llm.RepeatingMock(llm.MockResponse{Err: errQuota})
		eng, _, user := newTestEngine(t, mock)
		ctx := context.Background()
		require.NoError(t, eng.SelectSubject(ctx, user.ID, "coding"))

		res, err := eng.Ask(ctx, user.ID, 0, "What is a variable?", "")
		require.NoError(t, err)
		assert.Equal(t, KindFallback, res.Kind)
		assert.Equal(t, model.DefaultSessionName, res.SessionName)
		assert.Equal(t, 2, mock.CallCount(), "only the answer is attempted")
	})

	t.Run("naming is not retried", func(t *testing.T) {
		mock := llm.NewMockProvider(
			llm.MockResponse{Text: "A variable stores a value."},
			llm.MockResponse{Err: errQuota},
			llm.MockResponse{Text: "Variables"},
		)
		eng, _, user := newTestEngine(t, mock)
		ctx := context.Background()
		require.NoError(t, eng.SelectSubject(ctx, user.ID, "coding"))

		res, err := eng.Ask(ctx, user.ID, 0, "What is a variable?", "")
		require.NoError(t, err)
		assert.Equal(t, KindAnswer, res.Kind)
		assert.Equal(t, model.DefaultSessionName, res.SessionName)
		assert.Equal(t, 2, mock.CallCount())
	})
}

func TestAskRejectsEmptyQuery(t *testing.T) {
	eng, _, user := newTestEngine(t, llm.NewMockProvider())
	_, err := eng.Ask(context.Background(), user.ID, 0, "   ", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCleanSessionName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Python Variables", "Python Variables"},
		{"  \"Loops 101\"  ", "Loops 101"},
		{"**Bold Title**\nmore", "Bold Title"},
		{strings.Repeat("a", 60), strings.Repeat("a", SessionNameMaxRunes)},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanSessionName(tt.in); got != tt.want {
			t.Errorf("CleanSessionName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnalyzeCode(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "There is a syntax error on line 1."},
		llm.MockResponse{Text: "Line 1 par syntax error hai."},
	)
	eng, _, user := newTestEngine(t, mock)
	ctx := context.Background()

	res, err := eng.AnalyzeCode(ctx, user.ID, "print('hi'", "")
	require.NoError(t, err)
	assert.Equal(t, "There is a syntax error on line 1.", res.Analysis)
	assert.Equal(t, "Line 1 par syntax error hai.", res.RomanAnalysis)
	assert.True(t, res.HasError)
	assert.Equal(t, DefaultCodeLanguage, res.Language)
	assert.True(t, strings.HasPrefix(res.SessionName, "PYTHON Debug - "))
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "```python\nprint('hi'\n```")

	sessions, err := eng.CodeSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, res.SessionID, sessions[0].ID)
	assert.Equal(t, "print('hi'", sessions[0].CodeInput)
}

func TestAnalyzeCodeDegrades(t *testing.T) {
	t.Run("translation fails", func(t *testing.T) {
		mock := llm.NewMockProvider(
			llm.MockResponse{Text: "The code looks fine."},
			llm.MockResponse{Err: errors.New("boom")},
		)
		eng, _, user := newTestEngine(t, mock)

		res, err := eng.AnalyzeCode(context.Background(), user.ID, "x = 1", "Go")
		require.NoError(t, err)
		assert.False(t, res.HasError)
		assert.Equal(t, "Roman Urdu translation unavailable.", res.RomanAnalysis)
		assert.Equal(t, "go", res.Language)
	})

	t.Run("analysis fails", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
		eng, _, user := newTestEngine(t, mock)

		res, err := eng.AnalyzeCode(context.Background(), user.ID, "x = 1", "python")
		require.NoError(t, err)
		assert.True(t, res.HasError)
		assert.True(t, strings.HasPrefix(res.Analysis, "Error analyzing code: "))
		assert.True(t, strings.HasPrefix(res.RomanAnalysis, "Code analysis mein error: "))
		assert.Equal(t, 1, mock.CallCount(), "translation is skipped")
	})

	t.Run("empty code", func(t *testing.T) {
		eng, _, user := newTestEngine(t, llm.NewMockProvider())
		_, err := eng.AnalyzeCode(context.Background(), user.ID, "  ", "python")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestMentionsError(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Syntax ERROR here", true},
		{"The logic is incorrect.", true},
		{"All good.", false},
	}
	for _, tt := range tests {
		if got := MentionsError(tt.in); got != tt.want {
			t.Errorf("MentionsError(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCodeSessionName(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "JAVASCRIPT Debug - 2026-03-04 09:05", CodeSessionName("javascript", at))
}

func TestUpdateProgressSmooths(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Score: 80"},
		llm.MockResponse{Text: "60"},
		llm.MockResponse{Err: errors.New("boom")},
	)
	eng, st, user := newTestEngine(t, mock)
	ctx := context.Background()

	got, err := eng.UpdateProgress(ctx, user.ID, "Math", "4", "4")
	require.NoError(t, err)
	assert.Equal(t, 80, got.Score)
	assert.InDelta(t, 40.0, got.NewScore, 1e-9)

	got, err = eng.UpdateProgress(ctx, user.ID, "math", "5", "4")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.NewScore, 1e-9)

	got, err = eng.UpdateProgress(ctx, user.ID, "math", "5", "4")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Score, "failed scoring uses the default")
	assert.InDelta(t, 50.0, got.NewScore, 1e-9)

	u, err := st.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, u.Progress["math"], 1e-9)
}
