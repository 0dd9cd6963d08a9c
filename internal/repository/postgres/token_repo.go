package postgres

import (
	"context"

	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/repository"
)

// TokenRepo implements TokenRepository using PostgreSQL.
type TokenRepo struct{ db *DB }

var _ repository.TokenRepository = (*TokenRepo)(nil)

// NewTokenRepo constructs a token repository.
func NewTokenRepo(db *DB) *TokenRepo { return &TokenRepo{db: db} }

// List selects every token record in insertion order.
func (r *TokenRepo) List(ctx context.Context) ([]model.TokenRecord, error) {
	const q = `SELECT id, token, user_id, expires_at FROM tokens ORDER BY seq`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TokenRecord, 0)
	for rows.Next() {
		var t model.TokenRecord
		if err := rows.Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get selects a token record by id.
func (r *TokenRepo) Get(ctx context.Context, id string) (*model.TokenRecord, error) {
	const q = `SELECT id, token, user_id, expires_at FROM tokens WHERE id=$1`
	var t model.TokenRecord
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiresAt); err != nil {
		return nil, mapRowErr(err)
	}
	return &t, nil
}

// Create inserts a token record.
func (r *TokenRepo) Create(ctx context.Context, t *model.TokenRecord) error {
	const q = `INSERT INTO tokens (id, token, user_id, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.Token, t.UserID, t.ExpiresAt)
	return mapWriteErr(err)
}

// Patch overwrites token and/or expires_at; NULL arguments keep the stored value.
func (r *TokenRepo) Patch(ctx context.Context, id string, p model.TokenPatch) (*model.TokenRecord, error) {
	const q = `
UPDATE tokens
SET token = COALESCE($2, token), expires_at = COALESCE($3, expires_at)
WHERE id = $1
RETURNING id, token, user_id, expires_at`
	var t model.TokenRecord
	err := r.db.Pool.QueryRow(ctx, q, id, p.Token, p.ExpiresAt).Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiresAt)
	if err != nil {
		if werr := mapWriteErr(err); werr != err {
			return nil, werr
		}
		return nil, mapRowErr(err)
	}
	return &t, nil
}
