package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
)

const userColumns = `id, username, email, password_hash, is_active, created_at`

// UserRepo implements repository.UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new user row and fills in the generated id and creation time.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	const q = `
INSERT INTO users (username, email, password_hash, is_active)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	err := r.db.Pool.QueryRow(ctx, q, u.Username, u.Email, u.PasswordHash, u.IsActive).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return 0, translateUserError(err)
	}
	return u.ID, nil
}

// GetByID selects a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

// GetByEmail selects a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

// GetByUsername selects a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
}

// UpdateProfile rewrites the self-service profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, username, email string) error {
	const q = `UPDATE users SET username=$2, email=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, username, email)
	if err != nil {
		return translateUserError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.Pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func translateUserError(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case constraintUsername:
		return repository.ErrDuplicateUsername
	case constraintEmail:
		return repository.ErrDuplicateEmail
	default:
		return err
	}
}
