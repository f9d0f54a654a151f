package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
)

const exerciseColumns = `e.id, e.workout_id, e.name, e.sets, e.reps, e.weight, e.duration, e.created_at`

// ExerciseRepo implements repository.ExerciseRepository using PostgreSQL.
// Ownership is checked by joining the parent workout on every read and write.
type ExerciseRepo struct{ db *DB }

// NewExerciseRepo constructs an exercise repository.
func NewExerciseRepo(db *DB) *ExerciseRepo { return &ExerciseRepo{db: db} }

var _ repository.ExerciseRepository = (*ExerciseRepo)(nil)

// Create inserts an exercise under an already resolved workout. A workout that
// vanished in the meantime surfaces as repository.ErrNotFound.
func (r *ExerciseRepo) Create(ctx context.Context, e *domain.Exercise) (int64, error) {
	const q = `
INSERT INTO exercises (workout_id, name, sets, reps, weight, duration)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	err := r.db.Pool.QueryRow(ctx, q, e.WorkoutID, e.Name, e.Sets, e.Reps, e.Weight, e.Duration).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return e.ID, nil
}

// GetByID selects an exercise whose workout belongs to userID.
func (r *ExerciseRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Exercise, error) {
	const q = `
SELECT ` + exerciseColumns + `
FROM exercises e
JOIN workouts w ON w.id = e.workout_id
WHERE e.id=$1 AND w.user_id=$2`
	var e domain.Exercise
	err := r.db.Pool.QueryRow(ctx, q, id, userID).
		Scan(&e.ID, &e.WorkoutID, &e.Name, &e.Sets, &e.Reps, &e.Weight, &e.Duration, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	e.UserID = userID
	return &e, nil
}

// List returns the user's exercises in creation order, optionally for one workout only.
func (r *ExerciseRepo) List(ctx context.Context, userID int64, workoutID *int64) ([]domain.Exercise, error) {
	q := `
SELECT ` + exerciseColumns + `
FROM exercises e
JOIN workouts w ON w.id = e.workout_id
WHERE w.user_id=$1`
	args := []any{userID}
	if workoutID != nil {
		q += ` AND e.workout_id=$2`
		args = append(args, *workoutID)
	}
	q += ` ORDER BY e.created_at, e.id`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Exercise{}
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.WorkoutID, &e.Name, &e.Sets, &e.Reps, &e.Weight, &e.Duration, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID = userID
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update rewrites the mutable exercise fields. The parent workout never changes.
func (r *ExerciseRepo) Update(ctx context.Context, userID int64, e *domain.Exercise) error {
	const q = `
UPDATE exercises e
SET name=$3, sets=$4, reps=$5, weight=$6, duration=$7
FROM workouts w
WHERE e.id=$1 AND e.workout_id = w.id AND w.user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, e.ID, userID, e.Name, e.Sets, e.Reps, e.Weight, e.Duration)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise whose workout belongs to userID.
func (r *ExerciseRepo) Delete(ctx context.Context, userID, id int64) error {
	const q = `
DELETE FROM exercises e
USING workouts w
WHERE e.id=$1 AND e.workout_id = w.id AND w.user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
