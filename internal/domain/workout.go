package domain

import (
	"time"
)

// WorkoutType is one of a fixed set of training categories.
type WorkoutType string

const (
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutStrength    WorkoutType = "strength"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutSports      WorkoutType = "sports"
	WorkoutOther       WorkoutType = "other"
)

// DateLayout is the wire and storage format of a workout date.
const DateLayout = "2006-01-02"

// WorkoutTypes lists the accepted workout types in display order.
var WorkoutTypes = []WorkoutType{WorkoutCardio, WorkoutStrength, WorkoutFlexibility, WorkoutSports, WorkoutOther}

// IsValid reports whether t is one of the known workout types.
func (t WorkoutType) IsValid() bool {
	for _, known := range WorkoutTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Workout is a single training session owned by one user.
// A user can log at most one workout per (Date, Type).
type Workout struct {
	ID        int64       `bson:"_id" json:"id"`
	UserID    int64       `bson:"userId" json:"userId"`
	Date      time.Time   `bson:"date" json:"date"` // Calendar day, UTC midnight
	Type      WorkoutType `bson:"type" json:"type"`
	Duration  *int        `bson:"duration" json:"duration"` // Minutes, optional
	Distance  *float64    `bson:"distance" json:"distance"` // Unit-agnostic, optional
	Notes     string      `bson:"notes" json:"notes"`
	CreatedAt time.Time   `bson:"createdAt" json:"createdAt"`
}

// WorkoutSummary is the compact list view of a workout.
type WorkoutSummary struct {
	Workout
	ExerciseCount int `bson:"exerciseCount" json:"exerciseCount"`
}

// WorkoutDetail is a workout with its owner and nested exercises.
type WorkoutDetail struct {
	Workout
	User      User
	Exercises []Exercise
}

// WorkoutFilter narrows a workout listing. Zero values mean "no filter".
type WorkoutFilter struct {
	Date *time.Time
	Type WorkoutType
}

// WorkoutPatch carries a partial workout update. Nil pointers keep the stored value.
// ClearDuration/ClearDistance are used by full replacement (PUT) to null a field.
type WorkoutPatch struct {
	Date          *time.Time
	Type          *WorkoutType
	Duration      *int
	ClearDuration bool
	Distance      *float64
	ClearDistance bool
	Notes         *string
}

// Apply merges the patch into w.
func (p WorkoutPatch) Apply(w *Workout) {
	if p.Date != nil {
		w.Date = *p.Date
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Duration != nil {
		w.Duration = p.Duration
	} else if p.ClearDuration {
		w.Duration = nil
	}
	if p.Distance != nil {
		w.Distance = p.Distance
	} else if p.ClearDistance {
		w.Distance = nil
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
}

// TruncateToDate drops the time-of-day component, keeping the calendar day in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
