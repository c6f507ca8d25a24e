package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// quizRepo implements QuizRepo.
type quizRepo struct {
	db *sql.DB
}

var (
	quizColumns = []string{
		columnID, columnUserID, columnSubject, columnTitle, columnDifficulty, columnType,
		columnQuestionCnt, columnTimeLimit, columnStatus, columnCreatedAt, columnCompletedAt,
	}
	questionColumns = []string{
		columnID, columnQuizID, columnText, columnType, columnOptions, columnCorrect,
		columnExplanation, columnDifficulty, columnPoints, columnOrder,
	}
	attemptColumns = []string{
		columnID, columnQuizID, columnQuestionID, columnUserID, columnUserAnswer,
		columnIsCorrect, columnPointsEarned, columnTimeTaken, columnAttemptedAt,
	}
)

func (r *quizRepo) Create(ctx context.Context, quiz *model.Quiz, questions []model.QuizQuestion) error {
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = fromMillis(toMillis(time.Now()))
	}
	if quiz.Status == "" {
		quiz.Status = model.QuizActive
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := insert(ctx, tx, build.Insert(tableQuizzes).
			Columns(columnUserID, columnSubject, columnTitle, columnDifficulty, columnType,
				columnQuestionCnt, columnTimeLimit, columnStatus, columnCreatedAt).
			Values(quiz.UserID, quiz.Subject, quiz.Title, string(quiz.Difficulty), string(quiz.Type),
				quiz.QuestionCount, quiz.TimeLimitSeconds, string(quiz.Status), toMillis(quiz.CreatedAt)))
		if err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		quiz.ID = id

		for i := range questions {
			q := &questions[i]
			q.QuizID = id
			opts, err := json.Marshal(nonNil(q.Options))
			if err != nil {
				return fmt.Errorf("marshal options: %w", err)
			}
			qid, err := insert(ctx, tx, build.Insert(tableQuestions).
				Columns(columnQuizID, columnText, columnType, columnOptions, columnCorrect,
					columnExplanation, columnDifficulty, columnPoints, columnOrder).
				Values(id, q.Text, string(q.Type), string(opts), q.CorrectAnswer,
					q.Explanation, string(q.Difficulty), q.Points, q.Order))
			if err != nil {
				return fmt.Errorf("insert question %d: %w", q.Order, err)
			}
			q.ID = qid
		}
		return nil
	})
}

func (r *quizRepo) Get(ctx context.Context, id int64) (*model.Quiz, error) {
	row := queryRow(ctx, r.db, build.Select(quizColumns...).
		From(entsql.Table(tableQuizzes)).
		Where(entsql.EQ(columnID, id)))

	var (
		q                 model.Quiz
		difficulty, qtype string
		status            string
		created           int64
		completed         sql.NullInt64
	)
	err := row.Scan(&q.ID, &q.UserID, &q.Subject, &q.Title, &difficulty, &qtype,
		&q.QuestionCount, &q.TimeLimitSeconds, &status, &created, &completed)
	if err != nil {
		return nil, notFound(err, "quiz", id)
	}
	q.Difficulty = model.Difficulty(difficulty)
	q.Type = model.QuestionType(qtype)
	q.Status = model.QuizStatus(status)
	q.CreatedAt = fromMillis(created)
	if completed.Valid {
		t := fromMillis(completed.Int64)
		q.CompletedAt = &t
	}
	return &q, nil
}

func (r *quizRepo) Questions(ctx context.Context, quizID int64) ([]model.QuizQuestion, error) {
	rows, err := queryRows(ctx, r.db, build.Select(questionColumns...).
		From(entsql.Table(tableQuestions)).
		Where(entsql.EQ(columnQuizID, quizID)).
		OrderBy(entsql.Asc(columnOrder), entsql.Asc(columnID)))
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []model.QuizQuestion
	for rows.Next() {
		var (
			q                 model.QuizQuestion
			qtype, difficulty string
			opts              string
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &qtype, &opts, &q.CorrectAnswer,
			&q.Explanation, &difficulty, &q.Points, &q.Order); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = model.QuestionType(qtype)
		q.Difficulty = model.Difficulty(difficulty)
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *quizRepo) Attempts(ctx context.Context, quizID int64) ([]model.QuizAttempt, error) {
	rows, err := queryRows(ctx, r.db, build.Select(attemptColumns...).
		From(entsql.Table(tableAttempts)).
		Where(entsql.EQ(columnQuizID, quizID)).
		OrderBy(entsql.Asc(columnID)))
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []model.QuizAttempt
	for rows.Next() {
		var (
			a  model.QuizAttempt
			at int64
		)
		if err := rows.Scan(&a.ID, &a.QuizID, &a.QuestionID, &a.UserID, &a.UserAnswer,
			&a.IsCorrect, &a.PointsEarned, &a.TimeTakenSeconds, &at); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.AttemptedAt = fromMillis(at)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *quizRepo) SetStatus(ctx context.Context, id int64, status model.QuizStatus) error {
	if err := exec(ctx, r.db, build.Update(tableQuizzes).
		Set(columnStatus, string(status)).
		Where(entsql.EQ(columnID, id))); err != nil {
		return fmt.Errorf("set status for quiz %d: %w", id, err)
	}
	return nil
}

func (r *quizRepo) Delete(ctx context.Context, id int64) error {
	if err := exec(ctx, r.db, build.Delete(tableQuizzes).
		Where(entsql.EQ(columnID, id))); err != nil {
		return fmt.Errorf("delete quiz %d: %w", id, err)
	}
	return nil
}

func (r *quizRepo) SaveSubmission(ctx context.Context, sub Submission) (*model.QuizSession, error) {
	run := sub.Session
	run.QuizID = sub.QuizID
	run.UserID = sub.UserID
	run.Status = model.QuizCompleted
	if run.CompletedAt.IsZero() {
		run.CompletedAt = fromMillis(toMillis(time.Now()))
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := exec(ctx, tx, build.Update(tableQuizzes).
			Set(columnStatus, string(model.QuizCompleted)).
			Set(columnCompletedAt, toMillis(run.CompletedAt)).
			Where(entsql.And(
				entsql.EQ(columnID, sub.QuizID),
				entsql.EQ(columnStatus, string(model.QuizActive)),
			)))
		switch {
		case errors.Is(err, ErrNotFound):
			return fmt.Errorf("quiz %d: %w", sub.QuizID, ErrQuizNotActive)
		case err != nil:
			return fmt.Errorf("complete quiz %d: %w", sub.QuizID, err)
		}

		owned, err := questionIDs(ctx, tx, sub.QuizID)
		if err != nil {
			return err
		}

		for _, a := range sub.Attempts {
			if !owned[a.QuestionID] {
				return fmt.Errorf("question %d does not belong to quiz %d: %w", a.QuestionID, sub.QuizID, ErrNotFound)
			}
			at := a.AttemptedAt
			if at.IsZero() {
				at = run.CompletedAt
			}
			if _, err := insert(ctx, tx, build.Insert(tableAttempts).
				Columns(columnQuizID, columnQuestionID, columnUserID, columnUserAnswer,
					columnIsCorrect, columnPointsEarned, columnTimeTaken, columnAttemptedAt).
				Values(sub.QuizID, a.QuestionID, sub.UserID, a.UserAnswer,
					a.IsCorrect, a.PointsEarned, a.TimeTakenSeconds, toMillis(at))); err != nil {
				return fmt.Errorf("insert attempt: %w", err)
			}
		}

		id, err := insert(ctx, tx, build.Insert(tableQuizSessions).
			Columns(columnUserID, columnQuizID, columnTotalScore, columnMaxScore,
				columnPercentage, columnTimeTaken, columnStatus, columnCompletedAt).
			Values(sub.UserID, sub.QuizID, run.TotalScore, run.MaxScore,
				run.Percentage, run.TimeTaken, string(run.Status), toMillis(run.CompletedAt)))
		if err != nil {
			return fmt.Errorf("insert quiz session: %w", err)
		}
		run.ID = id

		u, err := getUser(ctx, tx, entsql.EQ(columnID, sub.UserID), sub.UserID)
		if err != nil {
			return err
		}
		u.Progress[sub.Subject] = math.Min(100, u.Progress[sub.Subject]+sub.Increment)
		return writeProgress(ctx, tx, sub.UserID, u.Progress)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *quizRepo) History(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error) {
	s := entsql.Table(tableQuizSessions).As("s")
	q := entsql.Table(tableQuizzes).As("q")
	sel := build.Select(
		s.C(columnID), s.C(columnQuizID), s.C(columnTotalScore), s.C(columnMaxScore),
		s.C(columnPercentage), s.C(columnTimeTaken), s.C(columnStatus), s.C(columnCompletedAt),
		q.C(columnSubject), q.C(columnTitle), q.C(columnDifficulty),
	).
		From(s).
		Join(q).On(s.C(columnQuizID), q.C(columnID)).
		Where(entsql.And(
			entsql.EQ(s.C(columnUserID), userID),
			entsql.EQ(s.C(columnStatus), string(model.QuizCompleted)),
		)).
		OrderBy(entsql.Desc(s.C(columnCompletedAt)), entsql.Desc(s.C(columnID)))
	if limit > 0 {
		sel = sel.Limit(limit)
	}

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e                  HistoryEntry
			status, difficulty string
			completed          int64
		)
		if err := rows.Scan(&e.Session.ID, &e.Session.QuizID, &e.Session.TotalScore, &e.Session.MaxScore,
			&e.Session.Percentage, &e.Session.TimeTaken, &status, &completed,
			&e.Subject, &e.Title, &difficulty); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Session.UserID = userID
		e.Session.Status = model.QuizStatus(status)
		e.Session.CompletedAt = fromMillis(completed)
		e.Difficulty = model.Difficulty(difficulty)
		out = append(out, e)
	}
	return out, rows.Err()
}

func questionIDs(ctx context.Context, q querier, quizID int64) (map[int64]bool, error) {
	rows, err := queryRows(ctx, q, build.Select(columnID).
		From(entsql.Table(tableQuestions)).
		Where(entsql.EQ(columnQuizID, quizID)))
	if err != nil {
		return nil, fmt.Errorf("query question ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
