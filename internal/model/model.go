package model

import "time"

// SubjectGeneral is the subject a learner has before choosing one.
const SubjectGeneral = "general"

// User is a learner. Progress maps subject name to a 0-100 mastery scalar.
type User struct {
	ID             int64
	Username       string
	Email          string
	CurrentSubject string
	Progress       map[string]float64
	CreatedAt      time.Time
}

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultSessionName is used until the first message names the session.
const DefaultSessionName = "Untitled Session"

// Session is a tutoring conversation on one subject.
type Session struct {
	ID        int64
	UserID    int64
	Subject   string
	Name      string
	CreatedAt time.Time
}

// Message is a single turn in a Session.
type Message struct {
	ID        int64
	SessionID int64
	Role      Role
	Content   string
	Timestamp time.Time
}

// Difficulty is the level a quiz is authored at.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"

	// DifficultyAuto is resolved from the learner's progress before authoring.
	DifficultyAuto Difficulty = "auto"
)

// Valid reports whether d is one of the three concrete difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// QuestionType is the answer format of a quiz question.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeFillBlank      QuestionType = "fill_blank"
	TypeCodeCompletion QuestionType = "code_completion"

	// TypeMixed is only valid on a Quiz; each question gets a concrete type.
	TypeMixed QuestionType = "mixed"
)

// ClosedTypes are the concrete question types a mixed quiz draws from.
var ClosedTypes = []QuestionType{TypeMultipleChoice, TypeFillBlank, TypeCodeCompletion}

// Valid reports whether t is a concrete question type or mixed.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeFillBlank, TypeCodeCompletion, TypeMixed:
		return true
	}
	return false
}

// QuizStatus tracks the lifecycle of a Quiz.
type QuizStatus string

const (
	QuizActive    QuizStatus = "active"
	QuizCompleted QuizStatus = "completed"
	QuizAbandoned QuizStatus = "abandoned"
)

// Quiz owns an ordered sequence of questions. Only Status and CompletedAt
// change after creation.
type Quiz struct {
	ID               int64
	UserID           int64
	Subject          string
	Title            string
	Difficulty       Difficulty
	Type             QuestionType
	QuestionCount    int
	TimeLimitSeconds int
	Status           QuizStatus
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

// QuizQuestion is immutable once authored.
type QuizQuestion struct {
	ID            int64
	QuizID        int64
	Text          string
	Type          QuestionType
	Options       []string
	CorrectAnswer string
	Explanation   string
	Difficulty    Difficulty
	Points        int
	Order         int
}

// QuizAttempt is one graded answer to one question.
type QuizAttempt struct {
	ID               int64
	QuizID           int64
	QuestionID       int64
	UserID           int64
	UserAnswer       string
	IsCorrect        bool
	PointsEarned     float64
	TimeTakenSeconds int
	AttemptedAt      time.Time
}

// QuizSession is a completed run of a quiz, aggregated from its attempts.
type QuizSession struct {
	ID          int64
	UserID      int64
	QuizID      int64
	TotalScore  float64
	MaxScore    float64
	Percentage  float64
	TimeTaken   int
	Status      QuizStatus
	CompletedAt time.Time
}

// CodeSession records one code-analysis request.
type CodeSession struct {
	ID        int64
	UserID    int64
	Name      string
	Language  string
	CodeInput string
	Response  string
	CreatedAt time.Time
}
