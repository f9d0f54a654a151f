package postgres

import (
	"context"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
)

// StatsRepo implements repository.StatsRepository with plain aggregate SQL.
type StatsRepo struct{ db *DB }

// NewStatsRepo constructs a stats repository.
func NewStatsRepo(db *DB) *StatsRepo { return &StatsRepo{db: db} }

var _ repository.StatsRepository = (*StatsRepo)(nil)

// RecentWorkouts returns up to limit workouts dated on or after since, newest first.
func (r *StatsRepo) RecentWorkouts(ctx context.Context, userID int64, since time.Time, limit int) ([]domain.WorkoutSummary, error) {
	const q = `
SELECT ` + workoutColumns + `, ` + exerciseCountColumn + `
FROM workouts w
WHERE w.user_id=$1 AND w.date >= $2
ORDER BY w.date DESC, w.created_at DESC
LIMIT $3`
	return querySummaries(ctx, r.db.Pool, q, userID, since, limit)
}

// WeeklyVolume sums durations and counts workouts dated on or after since.
// SUM over no non-null durations is NULL and stays nil.
func (r *StatsRepo) WeeklyVolume(ctx context.Context, userID int64, since time.Time) (domain.WeeklyStats, error) {
	const q = `
SELECT SUM(w.duration), COUNT(*)
FROM workouts w
WHERE w.user_id=$1 AND w.date >= $2`
	var (
		total *int64
		count int64
	)
	if err := r.db.Pool.QueryRow(ctx, q, userID, since).Scan(&total, &count); err != nil {
		return domain.WeeklyStats{}, err
	}
	stats := domain.WeeklyStats{TotalWorkouts: int(count)}
	if total != nil {
		v := int(*total)
		stats.TotalDuration = &v
	}
	return stats, nil
}

// PersonalRecords returns the heaviest weight per exercise name across all of
// the user's workouts, heaviest first. Exercises without a weight are ignored.
func (r *StatsRepo) PersonalRecords(ctx context.Context, userID int64, limit int) ([]domain.PersonalRecord, error) {
	const q = `
SELECT e.name, MAX(e.weight) AS max_weight
FROM exercises e
JOIN workouts w ON w.id = e.workout_id
WHERE w.user_id=$1 AND e.weight IS NOT NULL
GROUP BY e.name
ORDER BY max_weight DESC, e.name ASC
LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PersonalRecord{}
	for rows.Next() {
		var pr domain.PersonalRecord
		if err := rows.Scan(&pr.Name, &pr.MaxWeight); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
