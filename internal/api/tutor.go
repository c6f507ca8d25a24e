package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

type userView struct {
	ID             int64              `json:"id"`
	Username       string             `json:"username"`
	Email          string             `json:"email"`
	CurrentSubject string             `json:"current_subject"`
	Progress       map[string]float64 `json:"progress"`
	CreatedAt      time.Time          `json:"created_at"`
}

func newUserView(u *model.User) userView {
	return userView{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		CurrentSubject: u.CurrentSubject,
		Progress:       u.Progress,
		CreatedAt:      u.CreatedAt,
	}
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" {
		writeMessage(w, http.StatusBadRequest, "username is required")
		return
	}

	_, err := s.users.GetByUsername(r.Context(), body.Username)
	switch {
	case err == nil:
		writeMessage(w, http.StatusConflict, "username already taken")
		return
	case !errors.Is(err, store.ErrNotFound):
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.Create(r.Context(), body.Username, strings.TrimSpace(body.Email))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserView(u))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(u))
}

func (s *Server) handleSelectSubject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subject string `json:"subject"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.engine.SelectSubject(r.Context(), userID(r), body.Subject); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"subject": strings.ToLower(strings.TrimSpace(body.Subject))})
}

type askResponse struct {
	RequestID   string `json:"request_id"`
	Response    string `json:"response"`
	Kind        string `json:"kind"`
	SessionID   int64  `json:"session_id,omitempty"`
	SessionName string `json:"session_name,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt    string `json:"prompt"`
		SessionID int64  `json:"session_id"`
		Language  string `json:"language"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.engine.Ask(r.Context(), userID(r), body.SessionID, body.Prompt, body.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, askResponse{
		RequestID:   res.RequestID,
		Response:    res.Text,
		Kind:        string(res.Kind),
		SessionID:   res.SessionID,
		SessionName: res.SessionName,
	})
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subject       string `json:"subject"`
		UserAnswer    string `json:"user_answer"`
		CorrectAnswer string `json:"correct_answer"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.engine.UpdateProgress(r.Context(), userID(r), body.Subject, body.UserAnswer, body.CorrectAnswer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type sessionView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

type messageView struct {
	Role      model.Role `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
}

func newSessionView(sess model.Session) sessionView {
	return sessionView{ID: sess.ID, Name: sess.Name, Subject: sess.Subject, CreatedAt: sess.CreatedAt}
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.engine.Sessions(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, newSessionView(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "sessionID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid session ID")
		return
	}
	conv, err := s.engine.Conversation(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	msgs := make([]messageView, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, messageView{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	writeJSON(w, http.StatusOK, struct {
		sessionView
		Messages []messageView `json:"messages"`
	}{newSessionView(conv.Session), msgs})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "sessionID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid session ID")
		return
	}
	if err := s.engine.DeleteSession(r.Context(), userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyzeCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.engine.AnalyzeCode(r.Context(), userID(r), body.Code, body.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type codeSessionView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListCodeSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.engine.CodeSessions(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]codeSessionView, 0, len(sessions))
	for _, cs := range sessions {
		out = append(out, codeSessionView{ID: cs.ID, Name: cs.Name, Language: cs.Language, CreatedAt: cs.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}
