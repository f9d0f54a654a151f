package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
)

var userCols = []string{"id", "username", "email", "password_hash", "is_active", "created_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	u := &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h", IsActive: true}
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@x.com", "h", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	id, err := r.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, now, u.CreatedAt)
}

func TestUserRepo_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{constraintUsername, repository.ErrDuplicateUsername},
		{constraintEmail, repository.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			db, mock := newDB(t)
			r := NewUserRepo(db)

			mock.ExpectQuery(`INSERT INTO users`).
				WithArgs("alice", "alice@x.com", "h", true).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
			_, err := r.Create(context.Background(), &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h", IsActive: true})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserRepo_GetByEmailAndUsername(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE email=\$1`).
		WithArgs("alice@x.com").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(int64(3), "alice", "alice@x.com", "h", true, now))
	u, err := r.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.True(t, u.IsActive)

	mock.ExpectQuery(`FROM users WHERE username=\$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(3)).
		WillReturnError(boom)
	_, err = r.GetByID(ctx, 3)
	require.ErrorIs(t, err, boom)
}

func TestUserRepo_UpdateProfile(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE users SET username=\$2, email=\$3 WHERE id=\$1`).
		WithArgs(int64(3), "al", "al@x.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateProfile(ctx, 3, "al", "al@x.com"))

	mock.ExpectExec(`UPDATE users`).
		WithArgs(int64(3), "bob", "al@x.com").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraintUsername})
	require.ErrorIs(t, r.UpdateProfile(ctx, 3, "bob", "al@x.com"), repository.ErrDuplicateUsername)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(int64(9), "al", "al@x.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.UpdateProfile(ctx, 9, "al", "al@x.com"), repository.ErrNotFound)
}
