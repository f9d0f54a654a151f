package domain

import "time"

// WorkoutEventKind names a workout lifecycle transition.
type WorkoutEventKind string

const (
	WorkoutCreated WorkoutEventKind = "workout.created"
	WorkoutUpdated WorkoutEventKind = "workout.updated"
	WorkoutDeleted WorkoutEventKind = "workout.deleted"
)

// WorkoutEvent is published after a workout write succeeds.
type WorkoutEvent struct {
	Event      WorkoutEventKind `json:"event"`
	WorkoutID  int64            `json:"workout_id"`
	UserID     int64            `json:"user_id"`
	Date       string           `json:"date"`
	Type       WorkoutType      `json:"type"`
	Duration   *int             `json:"duration"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewWorkoutEvent snapshots w for the given transition.
func NewWorkoutEvent(kind WorkoutEventKind, w *Workout, at time.Time) WorkoutEvent {
	return WorkoutEvent{
		Event:      kind,
		WorkoutID:  w.ID,
		UserID:     w.UserID,
		Date:       w.Date.Format(DateLayout),
		Type:       w.Type,
		Duration:   w.Duration,
		OccurredAt: at.UTC(),
	}
}
