package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/messages"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/prompt"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

// SessionNameMaxRunes caps generated session names.
const SessionNameMaxRunes = 50

// ErrInvalidRequest marks a malformed conversation or analysis request.
var ErrInvalidRequest = errors.New("tutor: invalid request")

// AskResult is one conversation turn. SessionName is set only when this
// turn opened or named the session.
type AskResult struct {
	Reply
	SessionID   int64
	SessionName string
}

// Ask answers query inside a conversation on the learner's current
// subject. sessionID 0 opens a new session. Nothing is written until the
// reply has been computed.
func (e *Engine) Ask(ctx context.Context, userID, sessionID int64, query, explicitLanguage string) (*AskResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidRequest)
	}
	user, err := e.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	subject := user.CurrentSubject
	if subject == "" || subject == model.SubjectGeneral {
		lang := signals.ResolveLanguage(explicitLanguage, query)
		return &AskResult{
			Reply:     Reply{RequestID: requestID(ctx), Text: messages.Text(lang, messages.SelectSubject), Kind: KindNoTopic},
			SessionID: sessionID,
		}, nil
	}

	var sess *model.Session
	first := true
	if sessionID != 0 {
		sess, err = e.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if sess.UserID != userID {
			return nil, fmt.Errorf("session %d: %w", sessionID, store.ErrNotFound)
		}
		prior, err := e.sessions.Messages(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		first = len(prior) == 0
	}

	reply := e.Respond(ctx, subject, query, explicitLanguage)
	ctx = llm.WithRequestID(ctx, reply.RequestID)

	name := ""
	if first && reply.Kind != KindFallback {
		name = e.nameSession(ctx, query)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	turn := store.Turn{
		UserID:           userID,
		Subject:          subject,
		Name:             name,
		UserMessage:      query,
		AssistantMessage: reply.Text,
	}
	if sess != nil {
		turn.SessionID = sess.ID
	}
	saved, err := e.sessions.SaveTurn(ctx, turn)
	if err != nil {
		return nil, err
	}

	res := &AskResult{Reply: reply, SessionID: saved.ID}
	if first {
		res.SessionName = saved.Name
	}
	return res, nil
}

// nameSession returns a short title for a conversation opened by query, or
// "" when the model could not provide one. Naming is never retried.
func (e *Engine) nameSession(ctx context.Context, query string) string {
	out := e.gen.Generate(ctx, generator.Call{
		Prompt:   prompt.SessionName(query),
		Params:   generator.SessionNameParams,
		Subject:  model.SubjectGeneral,
		Query:    query,
		Language: signals.English,
		Purpose:  llm.PurposeSessionName,
		NoRetry:  true,
	})
	if !out.Succeeded() {
		return ""
	}
	return CleanSessionName(out.Text)
}

// CleanSessionName keeps the first line of a generated title, strips
// surrounding quotes and caps it at SessionNameMaxRunes.
func CleanSessionName(raw string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	name = strings.Trim(strings.TrimSpace(name), "\"'`*")
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > SessionNameMaxRunes {
		name = strings.TrimSpace(string(r[:SessionNameMaxRunes]))
	}
	return name
}

// SelectSubject sets the learner's current subject. Subjects are stored
// lowercase.
func (e *Engine) SelectSubject(ctx context.Context, userID int64, subject string) error {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	}
	return e.users.SetSubject(ctx, userID, subject)
}

// Conversation is a session with its turns.
type Conversation struct {
	Session  model.Session
	Messages []model.Message
}

// Sessions lists the learner's conversations.
func (e *Engine) Sessions(ctx context.Context, userID int64) ([]model.Session, error) {
	return e.sessions.ListByUser(ctx, userID)
}

// Conversation returns one of the learner's sessions with its messages.
// Sessions of other learners are reported as not found.
func (e *Engine) Conversation(ctx context.Context, userID, sessionID int64) (*Conversation, error) {
	sess, err := e.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	msgs, err := e.sessions.Messages(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return &Conversation{Session: *sess, Messages: msgs}, nil
}

// DeleteSession removes one of the learner's sessions and its messages.
func (e *Engine) DeleteSession(ctx context.Context, userID, sessionID int64) error {
	sess, err := e.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return e.sessions.Delete(ctx, sess.ID)
}

func (e *Engine) ownedSession(ctx context.Context, userID, sessionID int64) (*model.Session, error) {
	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("session %d: %w", sessionID, store.ErrNotFound)
	}
	return sess, nil
}
