package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// codeSessionRepo implements CodeSessionRepo.
type codeSessionRepo struct {
	db *sql.DB
}

func (r *codeSessionRepo) Create(ctx context.Context, cs *model.CodeSession) error {
	if cs.CreatedAt.IsZero() {
		cs.CreatedAt = fromMillis(toMillis(time.Now()))
	}
	id, err := insert(ctx, r.db, build.Insert(tableCodeSessions).
		Columns(columnUserID, columnName, columnLanguage, columnCodeInput, columnResponse, columnCreatedAt).
		Values(cs.UserID, cs.Name, cs.Language, cs.CodeInput, cs.Response, toMillis(cs.CreatedAt)))
	if err != nil {
		return fmt.Errorf("insert code session: %w", err)
	}
	cs.ID = id
	return nil
}

func (r *codeSessionRepo) ListByUser(ctx context.Context, userID int64) ([]model.CodeSession, error) {
	rows, err := queryRows(ctx, r.db, build.Select(
		columnID, columnUserID, columnName, columnLanguage, columnCodeInput, columnResponse, columnCreatedAt).
		From(entsql.Table(tableCodeSessions)).
		Where(entsql.EQ(columnUserID, userID)).
		OrderBy(entsql.Desc(columnID)))
	if err != nil {
		return nil, fmt.Errorf("query code sessions: %w", err)
	}
	defer rows.Close()

	var out []model.CodeSession
	for rows.Next() {
		var (
			cs      model.CodeSession
			created int64
		)
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.Name, &cs.Language, &cs.CodeInput, &cs.Response, &created); err != nil {
			return nil, fmt.Errorf("scan code session: %w", err)
		}
		cs.CreatedAt = fromMillis(created)
		out = append(out, cs)
	}
	return out, rows.Err()
}
