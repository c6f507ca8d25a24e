package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// userRepo implements UserRepo. Progress is a JSON object column.
type userRepo struct {
	db *sql.DB
}

var userColumns = []string{columnID, columnUsername, columnEmail, columnCurrentSubj, columnProgress, columnCreatedAt}

func (r *userRepo) Create(ctx context.Context, username, email string) (*model.User, error) {
	now := time.Now().UTC()
	id, err := insert(ctx, r.db, build.Insert(tableUsers).
		Columns(columnUsername, columnEmail, columnCurrentSubj, columnProgress, columnCreatedAt).
		Values(username, email, model.SubjectGeneral, "{}", toMillis(now)))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &model.User{
		ID:             id,
		Username:       username,
		Email:          email,
		CurrentSubject: model.SubjectGeneral,
		Progress:       map[string]float64{},
		CreatedAt:      fromMillis(toMillis(now)),
	}, nil
}

func (r *userRepo) Get(ctx context.Context, id int64) (*model.User, error) {
	return getUser(ctx, r.db, entsql.EQ(columnID, id), id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return getUser(ctx, r.db, entsql.EQ(columnUsername, username), username)
}

func (r *userRepo) SetSubject(ctx context.Context, id int64, subject string) error {
	err := exec(ctx, r.db, build.Update(tableUsers).
		Set(columnCurrentSubj, subject).
		Where(entsql.EQ(columnID, id)))
	if err != nil {
		return fmt.Errorf("set subject for user %d: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateProgress(ctx context.Context, id int64, subject string, fn func(old float64, ok bool) float64) (float64, error) {
	var updated float64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		u, err := getUser(ctx, tx, entsql.EQ(columnID, id), id)
		if err != nil {
			return err
		}
		old, ok := u.Progress[subject]
		updated = fn(old, ok)
		u.Progress[subject] = updated
		return writeProgress(ctx, tx, id, u.Progress)
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func getUser(ctx context.Context, q querier, where *entsql.Predicate, key any) (*model.User, error) {
	row := queryRow(ctx, q, build.Select(userColumns...).
		From(entsql.Table(tableUsers)).
		Where(where))

	var (
		u        model.User
		progress string
		created  int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.CurrentSubject, &progress, &created); err != nil {
		return nil, notFound(err, "user", key)
	}
	u.CreatedAt = fromMillis(created)
	p, err := decodeProgress(progress)
	if err != nil {
		return nil, fmt.Errorf("user %v: %w", key, err)
	}
	u.Progress = p
	return &u, nil
}

func writeProgress(ctx context.Context, q querier, id int64, progress map[string]float64) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := exec(ctx, q, build.Update(tableUsers).
		Set(columnProgress, string(raw)).
		Where(entsql.EQ(columnID, id))); err != nil {
		return fmt.Errorf("write progress for user %d: %w", id, err)
	}
	return nil
}

// decodeProgress always returns a fresh non-nil map.
func decodeProgress(raw string) (map[string]float64, error) {
	p := map[string]float64{}
	if raw == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return p, nil
}
