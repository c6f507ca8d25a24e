package store

import (
	"context"
	"time"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// UserRepo manages learners and their progress profile.
type UserRepo interface {
	// Create inserts a learner with an empty progress map.
	Create(ctx context.Context, username, email string) (*model.User, error)

	// Get returns the learner, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.User, error)

	// GetByUsername returns the learner, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// SetSubject changes the learner's current subject.
	SetSubject(ctx context.Context, id int64, subject string) error

	// UpdateProgress read-modify-writes one subject's progress scalar in a
	// single transaction. fn receives the current value (0 and false when
	// the subject has none) and returns the new value.
	UpdateProgress(ctx context.Context, id int64, subject string, fn func(old float64, ok bool) float64) (float64, error)
}

// SessionRepo manages tutoring conversations.
type SessionRepo interface {
	Create(ctx context.Context, userID int64, subject, name string) (*model.Session, error)
	Get(ctx context.Context, id int64) (*model.Session, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Session, error)
	Delete(ctx context.Context, id int64) error

	// Messages returns a session's turns in insertion order.
	Messages(ctx context.Context, sessionID int64) ([]model.Message, error)

	// SaveTurn records a question and its answer in one transaction,
	// creating the session when Turn.SessionID is 0.
	SaveTurn(ctx context.Context, t Turn) (*model.Session, error)
}

// Turn is one question and answer exchanged in a session. A non-empty Name
// names a new session or renames an existing one.
type Turn struct {
	SessionID        int64
	UserID           int64
	Subject          string
	Name             string
	UserMessage      string
	AssistantMessage string
}

// Submission is the full result of grading one quiz run. It is persisted
// in a single transaction.
type Submission struct {
	QuizID    int64
	UserID    int64
	Subject   string
	Attempts  []model.QuizAttempt
	Session   model.QuizSession
	Increment float64 // added to the subject's progress, capped at 100
}

// HistoryEntry is one completed quiz run joined with its quiz.
type HistoryEntry struct {
	Session    model.QuizSession
	Subject    string
	Title      string
	Difficulty model.Difficulty
}

// QuizRepo manages quizzes, their questions, attempts and completed runs.
type QuizRepo interface {
	// Create inserts the quiz and its questions atomically. IDs are
	// written back into the passed values.
	Create(ctx context.Context, quiz *model.Quiz, questions []model.QuizQuestion) error

	Get(ctx context.Context, id int64) (*model.Quiz, error)

	// Questions returns the quiz's questions ordered by position.
	Questions(ctx context.Context, quizID int64) ([]model.QuizQuestion, error)

	// Attempts returns the graded answers recorded for a quiz.
	Attempts(ctx context.Context, quizID int64) ([]model.QuizAttempt, error)

	SetStatus(ctx context.Context, id int64, status model.QuizStatus) error

	// Delete removes the quiz; questions, attempts and runs cascade.
	Delete(ctx context.Context, id int64) error

	// SaveSubmission writes attempts, the run, the completion status and
	// the progress increment in one transaction. It fails with
	// ErrQuizNotActive, writing nothing, unless the quiz is still active.
	SaveSubmission(ctx context.Context, sub Submission) (*model.QuizSession, error)

	// History returns the learner's most recent completed runs, newest first.
	History(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error)
}

// CodeSessionRepo records code-analysis requests.
type CodeSessionRepo interface {
	Create(ctx context.Context, cs *model.CodeSession) error
	ListByUser(ctx context.Context, userID int64) ([]model.CodeSession, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	RequestID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns events newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMRequest returns a single event by ID, or ErrNotFound.
	GetLLMRequest(ctx context.Context, id int64) (*LLMRequestEventRecord, error)
}
