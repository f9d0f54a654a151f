package repository

import (
	"alcyxob/fitness-tracker/internal/domain" // Import our defined domain models
	"context"                                 // Standard for request-scoped deadlines, cancellation signals, etc.
	"time"
)

// Error constants for the repository layer. Backends translate driver errors into these.
var (
	ErrNotFound          = RepositoryError("not found")
	ErrDuplicateUsername = RepositoryError("duplicate username")
	ErrDuplicateEmail    = RepositoryError("duplicate email")
	ErrDuplicateWorkout  = RepositoryError("duplicate workout for user, date and type")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) error
}

// WorkoutRepository defines the interface for interacting with workout data.
// Every method is scoped to the owning user; a workout owned by someone else
// is reported as ErrNotFound.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (int64, error)
	GetByID(ctx context.Context, userID, id int64) (*domain.Workout, error)
	List(ctx context.Context, userID int64, filter domain.WorkoutFilter) ([]domain.WorkoutSummary, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, userID, id int64) error // Cascades to the workout's exercises
}

// ExerciseRepository defines the interface for interacting with exercise data.
// Ownership is resolved through the parent workout's user.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (int64, error)
	GetByID(ctx context.Context, userID, id int64) (*domain.Exercise, error)
	List(ctx context.Context, userID int64, workoutID *int64) ([]domain.Exercise, error)
	Update(ctx context.Context, userID int64, exercise *domain.Exercise) error
	Delete(ctx context.Context, userID, id int64) error
}

// StatsRepository computes the dashboard aggregates for one user.
type StatsRepository interface {
	RecentWorkouts(ctx context.Context, userID int64, since time.Time, limit int) ([]domain.WorkoutSummary, error)
	WeeklyVolume(ctx context.Context, userID int64, since time.Time) (domain.WeeklyStats, error)
	PersonalRecords(ctx context.Context, userID int64, limit int) ([]domain.PersonalRecord, error)
}
