package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names. Timestamps are stored as unix milliseconds.
const (
	tableUsers         = "users"
	tableSessions      = "sessions"
	tableMessages      = "messages"
	tableQuizzes       = "quizzes"
	tableQuestions     = "quiz_questions"
	tableAttempts      = "quiz_attempts"
	tableQuizSessions  = "quiz_sessions"
	tableCodeSessions  = "code_sessions"
	tableLLMRequests   = "llm_request_events"
	columnID           = "id"
	columnUserID       = "user_id"
	columnSessionID    = "session_id"
	columnQuizID       = "quiz_id"
	columnQuestionID   = "question_id"
	columnCreatedAt    = "created_at"
	columnCompletedAt  = "completed_at"
	columnStatus       = "status"
	columnSubject      = "subject"
	columnProgress     = "progress"
	columnSequence     = "sequence"
	columnTimestamp    = "timestamp"
	columnName         = "name"
	columnOrder        = "position"
	columnAttemptedAt  = "attempted_at"
	columnCurrentSubj  = "current_subject"
	columnUsername     = "username"
	columnEmail        = "email"
	columnRole         = "role"
	columnContent      = "content"
	columnTitle        = "title"
	columnDifficulty   = "difficulty"
	columnType         = "type"
	columnQuestionCnt  = "question_count"
	columnTimeLimit    = "time_limit_seconds"
	columnText         = "text"
	columnOptions      = "options"
	columnCorrect      = "correct_answer"
	columnExplanation  = "explanation"
	columnPoints       = "points"
	columnUserAnswer   = "user_answer"
	columnIsCorrect    = "is_correct"
	columnPointsEarned = "points_earned"
	columnTimeTaken    = "time_taken_seconds"
	columnTotalScore   = "total_score"
	columnMaxScore     = "max_score"
	columnPercentage   = "percentage"
	columnLanguage     = "language"
	columnCodeInput    = "code_input"
	columnResponse     = "response"
)

var (
	usersColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnUsername, Type: field.TypeString, Unique: true},
		{Name: columnEmail, Type: field.TypeString, Default: ""},
		{Name: columnCurrentSubj, Type: field.TypeString, Default: "general"},
		{Name: columnProgress, Type: field.TypeString, Default: "{}"},
		{Name: columnCreatedAt, Type: field.TypeInt64},
	}
	usersTable = &schema.Table{
		Name:       tableUsers,
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	sessionsColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnUserID, Type: field.TypeInt64},
		{Name: columnSubject, Type: field.TypeString},
		{Name: columnName, Type: field.TypeString},
		{Name: columnCreatedAt, Type: field.TypeInt64},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "sessions_users_sessions",
			Columns:    []*schema.Column{sessionsColumns[1]},
			RefColumns: []*schema.Column{usersColumns[0]},
			OnDelete:   schema.Cascade,
		}},
	}

	messagesColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnSessionID, Type: field.TypeInt64},
		{Name: columnRole, Type: field.TypeString},
		{Name: columnContent, Type: field.TypeString, Size: 2147483647},
		{Name: columnCreatedAt, Type: field.TypeInt64},
	}
	messagesTable = &schema.Table{
		Name:       tableMessages,
		Columns:    messagesColumns,
		PrimaryKey: []*schema.Column{messagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "messages_sessions_messages",
			Columns:    []*schema.Column{messagesColumns[1]},
			RefColumns: []*schema.Column{sessionsColumns[0]},
			OnDelete:   schema.Cascade,
		}},
	}

	quizzesColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnUserID, Type: field.TypeInt64},
		{Name: columnSubject, Type: field.TypeString},
		{Name: columnTitle, Type: field.TypeString},
		{Name: columnDifficulty, Type: field.TypeString},
		{Name: columnType, Type: field.TypeString},
		{Name: columnQuestionCnt, Type: field.TypeInt},
		{Name: columnTimeLimit, Type: field.TypeInt},
		{Name: columnStatus, Type: field.TypeString},
		{Name: columnCreatedAt, Type: field.TypeInt64},
		{Name: columnCompletedAt, Type: field.TypeInt64, Nullable: true},
	}
	quizzesTable = &schema.Table{
		Name:       tableQuizzes,
		Columns:    quizzesColumns,
		PrimaryKey: []*schema.Column{quizzesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "quizzes_users_quizzes",
			Columns:    []*schema.Column{quizzesColumns[1]},
			RefColumns: []*schema.Column{usersColumns[0]},
			OnDelete:   schema.Cascade,
		}},
	}

	questionsColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnQuizID, Type: field.TypeInt64},
		{Name: columnText, Type: field.TypeString, Size: 2147483647},
		{Name: columnType, Type: field.TypeString},
		{Name: columnOptions, Type: field.TypeString, Default: "[]"},
		{Name: columnCorrect, Type: field.TypeString, Size: 2147483647},
		{Name: columnExplanation, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: columnDifficulty, Type: field.TypeString},
		{Name: columnPoints, Type: field.TypeInt},
		{Name: columnOrder, Type: field.TypeInt},
	}
	questionsTable = &schema.Table{
		Name:       tableQuestions,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "quiz_questions_quizzes_questions",
			Columns:    []*schema.Column{questionsColumns[1]},
			RefColumns: []*schema.Column{quizzesColumns[0]},
			OnDelete:   schema.Cascade,
		}},
	}

	attemptsColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnQuizID, Type: field.TypeInt64},
		{Name: columnQuestionID, Type: field.TypeInt64},
		{Name: columnUserID, Type: field.TypeInt64},
		{Name: columnUserAnswer, Type: field.TypeString, Size: 2147483647},
		{Name: columnIsCorrect, Type: field.TypeBool},
		{Name: columnPointsEarned, Type: field.TypeFloat64},
		{Name: columnTimeTaken, Type: field.TypeInt},
		{Name: columnAttemptedAt, Type: field.TypeInt64},
	}
	attemptsTable = &schema.Table{
		Name:       tableAttempts,
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_attempts_quizzes_attempts",
				Columns:    []*schema.Column{attemptsColumns[1]},
				RefColumns: []*schema.Column{quizzesColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "quiz_attempts_quiz_questions_attempts",
				Columns:    []*schema.Column{attemptsColumns[2]},
				RefColumns: []*schema.Column{questionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	quizSessionsColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnUserID, Type: field.TypeInt64},
		{Name: columnQuizID, Type: field.TypeInt64},
		{Name: columnTotalScore, Type: field.TypeFloat64},
		{Name: columnMaxScore, Type: field.TypeFloat64},
		{Name: columnPercentage, Type: field.TypeFloat64},
		{Name: columnTimeTaken, Type: field.TypeInt},
		{Name: columnStatus, Type: field.TypeString},
		{Name: columnCompletedAt, Type: field.TypeInt64},
	}
	quizSessionsTable = &schema.Table{
		Name:       tableQuizSessions,
		Columns:    quizSessionsColumns,
		PrimaryKey: []*schema.Column{quizSessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "quiz_sessions_quizzes_sessions",
			Columns:    []*schema.Column{quizSessionsColumns[2]},
			RefColumns: []*schema.Column{quizzesColumns[0]},
			OnDelete:   schema.Cascade,
		}},
	}

	codeSessionsColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnUserID, Type: field.TypeInt64},
		{Name: columnName, Type: field.TypeString},
		{Name: columnLanguage, Type: field.TypeString},
		{Name: columnCodeInput, Type: field.TypeString, Size: 2147483647},
		{Name: columnResponse, Type: field.TypeString, Size: 2147483647},
		{Name: columnCreatedAt, Type: field.TypeInt64},
	}
	codeSessionsTable = &schema.Table{
		Name:       tableCodeSessions,
		Columns:    codeSessionsColumns,
		PrimaryKey: []*schema.Column{codeSessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{{
			Symbol:     "code_sessions_users_code_sessions",
			Columns:    []*schema.Column{codeSessionsColumns[1]},
			RefColumns: []*schema.Column{usersColumns[0]},
			OnDelete:   schema.Cascade,
		}},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: columnID, Type: field.TypeInt64, Increment: true},
		{Name: columnSequence, Type: field.TypeInt64, Unique: true},
		{Name: columnTimestamp, Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "request_id", Type: field.TypeString, Default: ""},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestsTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{{
			Name:    "llmrequestevent_timestamp",
			Columns: []*schema.Column{llmRequestsColumns[2]},
		}},
	}

	// tables lists every table in dependency order.
	tables = []*schema.Table{
		usersTable,
		sessionsTable,
		messagesTable,
		quizzesTable,
		questionsTable,
		attemptsTable,
		quizSessionsTable,
		codeSessionsTable,
		llmRequestsTable,
	}
)

func init() {
	sessionsTable.ForeignKeys[0].RefTable = usersTable
	messagesTable.ForeignKeys[0].RefTable = sessionsTable
	quizzesTable.ForeignKeys[0].RefTable = usersTable
	questionsTable.ForeignKeys[0].RefTable = quizzesTable
	attemptsTable.ForeignKeys[0].RefTable = quizzesTable
	attemptsTable.ForeignKeys[1].RefTable = questionsTable
	quizSessionsTable.ForeignKeys[0].RefTable = quizzesTable
	codeSessionsTable.ForeignKeys[0].RefTable = usersTable
}
