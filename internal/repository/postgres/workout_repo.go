package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
)

const (
	workoutColumns = `w.id, w.user_id, w.date, w.type, w.duration, w.distance, w.notes, w.created_at`
	// exercise_count for the list shape.
	exerciseCountColumn = `(SELECT COUNT(*) FROM exercises e WHERE e.workout_id = w.id) AS exercise_count`
)

// WorkoutRepo implements repository.WorkoutRepository using PostgreSQL.
type WorkoutRepo struct{ db *DB }

// NewWorkoutRepo constructs a workout repository.
func NewWorkoutRepo(db *DB) *WorkoutRepo { return &WorkoutRepo{db: db} }

var _ repository.WorkoutRepository = (*WorkoutRepo)(nil)

// Create inserts a workout. The (user_id, date, type) unique constraint is the
// only duplicate check; its violation is reported as repository.ErrDuplicateWorkout.
func (r *WorkoutRepo) Create(ctx context.Context, w *domain.Workout) (int64, error) {
	const q = `
INSERT INTO workouts (user_id, date, type, duration, distance, notes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	err := r.db.Pool.QueryRow(ctx, q, w.UserID, w.Date, string(w.Type), w.Duration, w.Distance, w.Notes).
		Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return 0, translateWorkoutError(err)
	}
	return w.ID, nil
}

// GetByID selects one workout owned by userID.
func (r *WorkoutRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Workout, error) {
	const q = `SELECT ` + workoutColumns + ` FROM workouts w WHERE w.id=$1 AND w.user_id=$2`
	var w domain.Workout
	if err := scanWorkout(r.db.Pool.QueryRow(ctx, q, id, userID), &w); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// List returns the user's workouts, newest first, optionally filtered by date and type.
func (r *WorkoutRepo) List(ctx context.Context, userID int64, filter domain.WorkoutFilter) ([]domain.WorkoutSummary, error) {
	var (
		conds = []string{"w.user_id=$1"}
		args  = []any{userID}
	)
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conds = append(conds, fmt.Sprintf("w.date=$%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conds = append(conds, fmt.Sprintf("w.type=$%d", len(args)))
	}
	q := `SELECT ` + workoutColumns + `, ` + exerciseCountColumn + `
FROM workouts w
WHERE ` + strings.Join(conds, " AND ") + `
ORDER BY w.date DESC, w.created_at DESC`
	return r.querySummaries(ctx, q, args...)
}

// Update rewrites the mutable workout fields. Owner and creation time never change.
func (r *WorkoutRepo) Update(ctx context.Context, w *domain.Workout) error {
	const q = `
UPDATE workouts
SET date=$3, type=$4, duration=$5, distance=$6, notes=$7
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, w.ID, w.UserID, w.Date, string(w.Type), w.Duration, w.Distance, w.Notes)
	if err != nil {
		return translateWorkoutError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout owned by userID; exercises go with it (ON DELETE CASCADE).
func (r *WorkoutRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *WorkoutRepo) querySummaries(ctx context.Context, q string, args ...any) ([]domain.WorkoutSummary, error) {
	return querySummaries(ctx, r.db.Pool, q, args...)
}

func querySummaries(ctx context.Context, pool PgxPool, q string, args ...any) ([]domain.WorkoutSummary, error) {
	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.WorkoutSummary{}
	for rows.Next() {
		var (
			s   domain.WorkoutSummary
			typ string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &typ, &s.Duration, &s.Distance, &s.Notes, &s.CreatedAt, &s.ExerciseCount); err != nil {
			return nil, err
		}
		s.Type = domain.WorkoutType(typ)
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanWorkout(row pgx.Row, w *domain.Workout) error {
	var typ string
	if err := row.Scan(&w.ID, &w.UserID, &w.Date, &typ, &w.Duration, &w.Distance, &w.Notes, &w.CreatedAt); err != nil {
		return err
	}
	w.Type = domain.WorkoutType(typ)
	return nil
}

func translateWorkoutError(err error) error {
	if constraint, ok := uniqueViolation(err); ok && constraint == constraintWorkoutSlot {
		return repository.ErrDuplicateWorkout
	}
	return err
}
