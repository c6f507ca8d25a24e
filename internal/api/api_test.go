package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/corpus"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/quiz"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/retrieval"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/tutor"
)

const mcRecord = `{"question_text": "What is 2+2?", "question_type": "multiple_choice", "options": ["3", "4", "5", "6"], "correct_answer": "4", "explanation": "Basic addition."}`

type testServer struct {
	t  *testing.T
	h  http.Handler
	st *store.Store
}

func newTestServer(t *testing.T, mock *llm.MockProvider) *testServer {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gen := generator.New(mock, generator.Config{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
		Seed:       1,
		Sleep:      func(context.Context, time.Duration) error { return nil },
	}, logger.Nop())
	index := corpus.NewStaticIndex(map[string][]corpus.Example{}, corpus.Options{})
	engine := tutor.New(tutor.Deps{
		Retriever:    retrieval.New(index, retrieval.StrategyLexical, nil),
		Generator:    gen,
		Users:        st.Users(),
		Sessions:     st.Sessions(),
		CodeSessions: st.CodeSessions(),
	}, tutor.DefaultConfig())
	quizzes := quiz.NewService(st.Quizzes(), st.Users(), gen, 1, nil)

	return &testServer{t: t, h: New(engine, quizzes, st.Users(), nil).Handler(), st: st}
}

func (ts *testServer) do(method, path string, userID int64, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(UserHeader, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createUser(name string) int64 {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/users", 0, map[string]string{"username": name, "email": name + "@example.com"})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	var u userView
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u.ID
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestUsersAndAuth(t *testing.T) {
	ts := newTestServer(t, llm.NewMockProvider())
	id := ts.createUser("zara")

	rec := ts.do(http.MethodPost, "/users", 0, map[string]string{"username": "zara"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPost, "/users", 0, map[string]string{"username": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/me", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/me", 9999, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/me", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[userView](t, rec)
	assert.Equal(t, "zara", me.Username)
	assert.Equal(t, "general", me.CurrentSubject)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestAskFlow(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "A variable stores a value."},
		llm.MockResponse{Text: "Variables"},
	)
	ts := newTestServer(t, mock)
	id := ts.createUser("zara")

	rec := ts.do(http.MethodPost, "/ask", id, map[string]any{"prompt": "What is a variable?"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Please select a subject first (e.g., math, coding).", decodeBody[askResponse](t, rec).Response)

	rec = ts.do(http.MethodPost, "/subject", id, map[string]string{"subject": "Coding"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/ask", id, map[string]any{"prompt": "What is a variable?"})
	require.Equal(t, http.StatusOK, rec.Code)
	ask := decodeBody[askResponse](t, rec)
	assert.Equal(t, "A variable stores a value.", ask.Response)
	assert.Equal(t, "Variables", ask.SessionName)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), ask.RequestID)

	path := fmt.Sprintf("/sessions/%d", ask.SessionID)
	rec = ts.do(http.MethodGet, path, id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	conv := decodeBody[struct {
		Name     string        `json:"name"`
		Messages []messageView `json:"messages"`
	}](t, rec)
	assert.Equal(t, "Variables", conv.Name)
	assert.Len(t, conv.Messages, 2)

	other := ts.createUser("omar")
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, path, other, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/sessions/abc", id, nil).Code)

	rec = ts.do(http.MethodGet, "/sessions", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]sessionView](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, path, id, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, path, id, nil).Code)
}

func TestRejectsMalformedBodies(t *testing.T) {
	ts := newTestServer(t, llm.NewMockProvider())
	id := ts.createUser("zara")

	rec := ts.do(http.MethodPost, "/ask", id, map[string]any{"prompt": "hi", "bogus": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/code/analyze", id, map[string]string{"code": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/quizzes", id, map[string]string{"subject": "general"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizLifecycle(t *testing.T) {
	ts := newTestServer(t, llm.RepeatingMock(llm.MockResponse{Text: mcRecord}))
	id := ts.createUser("zara")

	rec := ts.do(http.MethodPost, "/quizzes", id, map[string]any{
		"subject": "math", "difficulty": "beginner", "quiz_type": "multiple_choice", "question_count": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[struct {
		quizView
		Questions []questionView `json:"questions"`
	}](t, rec)
	require.Len(t, created.Questions, 2)
	assert.Equal(t, "Math Quiz - Beginner", created.Title)
	assert.NotContains(t, rec.Body.String(), "correct_answer")

	rec = ts.do(http.MethodGet, fmt.Sprintf("/quizzes/%d/questions", created.ID), id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	answers := []quiz.Answer{
		{QuestionID: created.Questions[0].ID, UserAnswer: "4", TimeTakenSeconds: 5},
		{QuestionID: created.Questions[1].ID, UserAnswer: "3", TimeTakenSeconds: 7},
	}
	submitPath := fmt.Sprintf("/quizzes/%d/submit", created.ID)
	rec = ts.do(http.MethodPost, submitPath, id, map[string]any{"answers": answers})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[submitResponse](t, rec)
	assert.InDelta(t, 50.0, res.Percentage, 1e-9)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, 12, res.TimeTaken)

	rec = ts.do(http.MethodPost, submitPath, id, map[string]any{"answers": answers})
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/quizzes/999/questions", id, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/quizzes/x/questions", id, nil).Code)

	rec = ts.do(http.MethodGet, "/quizzes/history", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hist := decodeBody[struct {
		Entries []historyEntryView `json:"quiz_history"`
		Average float64            `json:"average_score"`
	}](t, rec)
	require.Len(t, hist.Entries, 1)
	assert.InDelta(t, 50.0, hist.Average, 1e-9)

	rec = ts.do(http.MethodGet, "/recommendations", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recs := decodeBody[struct {
		Recommendations []quiz.Recommendation `json:"recommendations"`
	}](t, rec)
	require.NotEmpty(t, recs.Recommendations)
	assert.Equal(t, "math", recs.Recommendations[0].Subject)
}

func TestProgressAndCode(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "90"},
		llm.MockResponse{Text: "No errors found."},
		llm.MockResponse{Text: "Koi masla nahi."},
	)
	ts := newTestServer(t, mock)
	id := ts.createUser("zara")

	rec := ts.do(http.MethodPost, "/progress", id, map[string]string{
		"subject": "physics", "user_answer": "9.8", "correct_answer": "9.81",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 45.0, decodeBody[tutor.ProgressUpdate](t, rec).NewScore, 1e-9)

	rec = ts.do(http.MethodPost, "/code/analyze", id, map[string]string{"code": "x = 1"})
	require.Equal(t, http.StatusOK, rec.Code)
	analysis := decodeBody[tutor.CodeAnalysis](t, rec)
	assert.True(t, analysis.HasError, "analysis mentioning errors is flagged")
	assert.Equal(t, "Koi masla nahi.", analysis.RomanAnalysis)

	rec = ts.do(http.MethodGet, "/code/sessions", id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]codeSessionView](t, rec), 1)
}
