package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestUserRepo_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)

	mock.ExpectQuery(`SELECT id, email, password, name FROM users ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password", "name"}).
			AddRow("u1", "ana@example.com", "secret", "Ana").
			AddRow("u2", "bob@example.com", "pw", ""))

	users, err := r.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.User{
		{ID: "u1", Email: "ana@example.com", Password: "secret", Name: "Ana"},
		{ID: "u2", Email: "bob@example.com", Password: "pw"},
	}, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_List_Empty(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)

	mock.ExpectQuery(`SELECT id, email, password, name FROM users ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password", "name"}))

	users, err := r.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, users, "empty list encodes as []")
	require.Empty(t, users)
}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{ID: "u1", Email: "ana@example.com", Password: "secret", Name: "Ana"}

	mock.ExpectExec(`INSERT INTO users \(id, email, password, name\) VALUES \(\$1, \$2, \$3, \$4\)`).
		WithArgs(u.ID, u.Email, u.Password, u.Name).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, u))

	mock.ExpectExec(`INSERT INTO users \(id, email, password, name\) VALUES \(\$1, \$2, \$3, \$4\)`).
		WithArgs(u.ID, u.Email, u.Password, u.Name).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, u), errs.ErrAlreadyExists)
}

func TestUserRepo_List_QueryError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	boom := errors.New("boom")

	mock.ExpectQuery(`SELECT id, email, password, name FROM users`).WillReturnError(boom)
	_, err := r.List(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestDB_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	db := &DB{Pool: mock}

	mock.ExpectPing()
	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
