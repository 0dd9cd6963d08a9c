package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

var tokenCols = []string{"id", "token", "user_id", "expires_at"}

func TestTokenRepo_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTokenRepo(db)

	mock.ExpectQuery(`SELECT id, token, user_id, expires_at FROM tokens ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows(tokenCols).
			AddRow("t1", "abc", "u1", int64(1700000000000)))

	got, err := r.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.TokenRecord{{ID: "t1", Token: "abc", UserID: "u1", ExpiresAt: 1700000000000}}, got)
}

func TestTokenRepo_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTokenRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, token, user_id, expires_at FROM tokens WHERE id=\$1`).
		WithArgs("t1").
		WillReturnRows(pgxmock.NewRows(tokenCols).AddRow("t1", "abc", "u1", int64(5)))
	got, err := r.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "abc", got.Token)

	mock.ExpectQuery(`SELECT id, token, user_id, expires_at FROM tokens WHERE id=\$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(ctx, "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTokenRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTokenRepo(db)
	rec := &model.TokenRecord{ID: "t1", Token: "abc", UserID: "u1", ExpiresAt: 42}

	mock.ExpectExec(`INSERT INTO tokens \(id, token, user_id, expires_at\) VALUES \(\$1, \$2, \$3, \$4\)`).
		WithArgs(rec.ID, rec.Token, rec.UserID, rec.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(context.Background(), rec))

	mock.ExpectExec(`INSERT INTO tokens`).
		WithArgs(rec.ID, rec.Token, rec.UserID, rec.ExpiresAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(context.Background(), rec), errs.ErrAlreadyExists)
}

func TestTokenRepo_Patch(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTokenRepo(db)
	ctx := context.Background()
	tok, exp := "new", int64(99)

	mock.ExpectQuery(`UPDATE tokens SET token = COALESCE\(\$2, token\), expires_at = COALESCE\(\$3, expires_at\) WHERE id = \$1 RETURNING id, token, user_id, expires_at`).
		WithArgs("t1", &tok, &exp).
		WillReturnRows(pgxmock.NewRows(tokenCols).AddRow("t1", "new", "u1", int64(99)))
	got, err := r.Patch(ctx, "t1", model.TokenPatch{Token: &tok, ExpiresAt: &exp})
	require.NoError(t, err)
	require.Equal(t, model.TokenRecord{ID: "t1", Token: "new", UserID: "u1", ExpiresAt: 99}, *got)

	mock.ExpectQuery(`UPDATE tokens`).
		WithArgs("missing", &tok, &exp).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Patch(ctx, "missing", model.TokenPatch{Token: &tok, ExpiresAt: &exp})
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectQuery(`UPDATE tokens`).
		WithArgs("t2", &tok, &exp).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = r.Patch(ctx, "t2", model.TokenPatch{Token: &tok, ExpiresAt: &exp})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}
