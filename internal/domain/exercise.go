// internal/domain/exercise.go
package domain

import (
	"time"
)

// Exercise is one movement performed within a workout.
type Exercise struct {
	ID        int64     `bson:"_id" json:"id"`
	WorkoutID int64     `bson:"workoutId" json:"workoutId"`
	UserID    int64     `bson:"userId" json:"-"` // Denormalized owner (Mongo backend), for ownership filters
	Name      string    `bson:"name" json:"name"`
	Sets      *int      `bson:"sets" json:"sets"`
	Reps      *int      `bson:"reps" json:"reps"`
	Weight    *float64  `bson:"weight" json:"weight"`     // Unit-agnostic
	Duration  *int      `bson:"duration" json:"duration"` // Minutes
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ExercisePatch carries a partial exercise update. Nil pointers keep the stored value.
type ExercisePatch struct {
	Name          *string
	Sets          *int
	ClearSets     bool
	Reps          *int
	ClearReps     bool
	Weight        *float64
	ClearWeight   bool
	Duration      *int
	ClearDuration bool
}

// Apply merges the patch into e.
func (p ExercisePatch) Apply(e *Exercise) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	e.Sets = pickInt(p.Sets, p.ClearSets, e.Sets)
	e.Reps = pickInt(p.Reps, p.ClearReps, e.Reps)
	e.Duration = pickInt(p.Duration, p.ClearDuration, e.Duration)
	if p.Weight != nil {
		e.Weight = p.Weight
	} else if p.ClearWeight {
		e.Weight = nil
	}
}

func pickInt(next *int, clear bool, current *int) *int {
	if next != nil {
		return next
	}
	if clear {
		return nil
	}
	return current
}
