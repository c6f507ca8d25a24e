// Package api exposes the tutor over HTTP with a JSON body per request.
// The learner is identified by the X-User-ID header.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/quiz"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/tutor"
)

const (
	// UserHeader carries the learner ID on every learner-scoped route.
	UserHeader = "X-User-ID"

	// RequestIDHeader echoes the correlation ID of the request.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// Server holds the HTTP handlers' dependencies.
type Server struct {
	engine  *tutor.Engine
	quizzes *quiz.Service
	users   store.UserRepo
	log     *logger.Logger
}

// New creates a Server.
func New(engine *tutor.Engine, quizzes *quiz.Service, users store.UserRepo, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{engine: engine, quizzes: quizzes, users: users, log: log}
}

// Handler returns the routed handler with the standard middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	s.Routes(r)
	return r
}

// Routes registers all HTTP routes on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Post("/users", s.handleCreateUser)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/me", s.handleMe)
		r.Post("/subject", s.handleSelectSubject)
		r.Post("/ask", s.handleAsk)
		r.Post("/progress", s.handleUpdateProgress)

		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/sessions/{sessionID}", s.handleDeleteSession)

		r.Post("/code/analyze", s.handleAnalyzeCode)
		r.Get("/code/sessions", s.handleListCodeSessions)

		r.Post("/quizzes", s.handleCreateQuiz)
		r.Get("/quizzes/history", s.handleQuizHistory)
		r.Get("/quizzes/{quizID}/questions", s.handleQuizQuestions)
		r.Post("/quizzes/{quizID}/submit", s.handleSubmitQuiz)
		r.Get("/recommendations", s.handleRecommendations)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestID attaches a correlation ID to the request context and the
// response. A well-formed incoming X-Request-ID is reused.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(llm.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", llm.RequestIDFrom(r.Context()),
		)
	})
}

type userKey struct{}

// requireUser resolves the X-User-ID header to an existing learner.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(UserHeader), 10, 64)
		if err != nil || id <= 0 {
			writeMessage(w, http.StatusUnauthorized, "missing or invalid "+UserHeader+" header")
			return
		}
		if _, err := s.users.Get(r.Context(), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, id)))
	})
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userKey{}).(int64)
	return id
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
