package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	db *sql.DB
}

var (
	sessionColumns = []string{columnID, columnUserID, columnSubject, columnName, columnCreatedAt}
	messageColumns = []string{columnID, columnSessionID, columnRole, columnContent, columnCreatedAt}
)

func (r *sessionRepo) Create(ctx context.Context, userID int64, subject, name string) (*model.Session, error) {
	if name == "" {
		name = model.DefaultSessionName
	}
	now := fromMillis(toMillis(time.Now()))
	id, err := insert(ctx, r.db, build.Insert(tableSessions).
		Columns(columnUserID, columnSubject, columnName, columnCreatedAt).
		Values(userID, subject, name, toMillis(now)))
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &model.Session{ID: id, UserID: userID, Subject: subject, Name: name, CreatedAt: now}, nil
}

func (r *sessionRepo) Get(ctx context.Context, id int64) (*model.Session, error) {
	row := queryRow(ctx, r.db, build.Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ(columnID, id)))
	s, err := scanSession(row)
	if err != nil {
		return nil, notFound(err, "session", id)
	}
	return s, nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID int64) ([]model.Session, error) {
	rows, err := queryRows(ctx, r.db, build.Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ(columnUserID, userID)).
		OrderBy(entsql.Desc(columnCreatedAt), entsql.Desc(columnID)))
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Delete(ctx context.Context, id int64) error {
	if err := exec(ctx, r.db, build.Delete(tableSessions).
		Where(entsql.EQ(columnID, id))); err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}

func (r *sessionRepo) SaveTurn(ctx context.Context, t Turn) (*model.Session, error) {
	now := fromMillis(toMillis(time.Now()))
	sess := &model.Session{ID: t.SessionID, UserID: t.UserID, Subject: t.Subject, Name: t.Name, CreatedAt: now}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		switch {
		case t.SessionID == 0:
			if sess.Name == "" {
				sess.Name = model.DefaultSessionName
			}
			id, err := insert(ctx, tx, build.Insert(tableSessions).
				Columns(columnUserID, columnSubject, columnName, columnCreatedAt).
				Values(t.UserID, t.Subject, sess.Name, toMillis(now)))
			if err != nil {
				return fmt.Errorf("insert session: %w", err)
			}
			sess.ID = id
		default:
			got, err := scanSession(queryRow(ctx, tx, build.Select(sessionColumns...).
				From(entsql.Table(tableSessions)).
				Where(entsql.EQ(columnID, t.SessionID))))
			if err != nil {
				return notFound(err, "session", t.SessionID)
			}
			if t.Name != "" {
				if err := exec(ctx, tx, build.Update(tableSessions).
					Set(columnName, t.Name).
					Where(entsql.EQ(columnID, got.ID))); err != nil {
					return fmt.Errorf("rename session %d: %w", got.ID, err)
				}
				got.Name = t.Name
			}
			sess = got
		}

		for _, m := range []struct {
			role    model.Role
			content string
		}{{model.RoleUser, t.UserMessage}, {model.RoleAssistant, t.AssistantMessage}} {
			if _, err := insert(ctx, tx, build.Insert(tableMessages).
				Columns(columnSessionID, columnRole, columnContent, columnCreatedAt).
				Values(sess.ID, string(m.role), m.content, toMillis(now))); err != nil {
				return fmt.Errorf("insert %s message: %w", m.role, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (r *sessionRepo) Messages(ctx context.Context, sessionID int64) ([]model.Message, error) {
	rows, err := queryRows(ctx, r.db, build.Select(messageColumns...).
		From(entsql.Table(tableMessages)).
		Where(entsql.EQ(columnSessionID, sessionID)).
		OrderBy(entsql.Asc(columnID)))
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var (
			m    model.Message
			role string
			ts   int64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = model.Role(role)
		m.Timestamp = fromMillis(ts)
		out = append(out, m)
	}
	return out, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (*model.Session, error) {
	var (
		out     model.Session
		created int64
	)
	if err := s.Scan(&out.ID, &out.UserID, &out.Subject, &out.Name, &created); err != nil {
		return nil, err
	}
	out.CreatedAt = fromMillis(created)
	return &out, nil
}
