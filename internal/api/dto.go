package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"bytes"
	"encoding/json"
	"time"
)

// Optional records whether a JSON field was sent and whether it was null.
// PUT and PATCH bodies use it to tell "leave alone" from "clear".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// present reports a non-null value.
func (o Optional[T]) present() bool { return o.Set && !o.Null }

// --- Response DTOs ---

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutListItem is the compact shape used by listings and the dashboard.
type WorkoutListItem struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Type          string    `json:"type"`
	Duration      *int      `json:"duration"`
	Distance      *float64  `json:"distance"`
	Notes         string    `json:"notes"`
	ExerciseCount int       `json:"exercise_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// NestedExerciseResponse is an exercise inside a workout detail.
type NestedExerciseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Sets      *int      `json:"sets"`
	Reps      *int      `json:"reps"`
	Weight    *float64  `json:"weight"`
	Duration  *int      `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseResponse is a standalone exercise.
type ExerciseResponse struct {
	ID        int64     `json:"id"`
	WorkoutID int64     `json:"workout_id"`
	Name      string    `json:"name"`
	Sets      *int      `json:"sets"`
	Reps      *int      `json:"reps"`
	Weight    *float64  `json:"weight"`
	Duration  *int      `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutDetailResponse nests the owner and the exercises.
type WorkoutDetailResponse struct {
	ID        int64                    `json:"id"`
	User      UserResponse             `json:"user"`
	Date      string                   `json:"date"`
	Type      string                   `json:"type"`
	Duration  *int                     `json:"duration"`
	Distance  *float64                 `json:"distance"`
	Notes     string                   `json:"notes"`
	Exercises []NestedExerciseResponse `json:"exercises"`
	CreatedAt time.Time                `json:"created_at"`
}

type DashboardResponse struct {
	RecentWorkouts  []WorkoutListItem       `json:"recent_workouts"`
	WeeklyStats     domain.WeeklyStats      `json:"weekly_stats"`
	PersonalRecords []domain.PersonalRecord `json:"personal_records"`
}

// --- Mappers ---

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func MapWorkoutSummaryToResponse(w domain.WorkoutSummary) WorkoutListItem {
	return WorkoutListItem{
		ID:            w.ID,
		Date:          w.Date.Format(domain.DateLayout),
		Type:          string(w.Type),
		Duration:      w.Duration,
		Distance:      w.Distance,
		Notes:         w.Notes,
		ExerciseCount: w.ExerciseCount,
		CreatedAt:     w.CreatedAt,
	}
}

// MapWorkoutSummariesToResponse never returns nil, so empty lists encode as [].
func MapWorkoutSummariesToResponse(workouts []domain.WorkoutSummary) []WorkoutListItem {
	responses := make([]WorkoutListItem, len(workouts))
	for i, w := range workouts {
		responses[i] = MapWorkoutSummaryToResponse(w)
	}
	return responses
}

func MapWorkoutDetailToResponse(d *domain.WorkoutDetail) WorkoutDetailResponse {
	exercises := make([]NestedExerciseResponse, len(d.Exercises))
	for i, e := range d.Exercises {
		exercises[i] = NestedExerciseResponse{
			ID:        e.ID,
			Name:      e.Name,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Weight:    e.Weight,
			Duration:  e.Duration,
			CreatedAt: e.CreatedAt,
		}
	}
	return WorkoutDetailResponse{
		ID:        d.ID,
		User:      MapUserToResponse(&d.User),
		Date:      d.Date.Format(domain.DateLayout),
		Type:      string(d.Type),
		Duration:  d.Duration,
		Distance:  d.Distance,
		Notes:     d.Notes,
		Exercises: exercises,
		CreatedAt: d.CreatedAt,
	}
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:        e.ID,
		WorkoutID: e.WorkoutID,
		Name:      e.Name,
		Sets:      e.Sets,
		Reps:      e.Reps,
		Weight:    e.Weight,
		Duration:  e.Duration,
		CreatedAt: e.CreatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func MapDashboardToResponse(s *domain.DashboardStats) DashboardResponse {
	records := s.PersonalRecords
	if records == nil {
		records = []domain.PersonalRecord{}
	}
	return DashboardResponse{
		RecentWorkouts:  MapWorkoutSummariesToResponse(s.RecentWorkouts),
		WeeklyStats:     s.WeeklyStats,
		PersonalRecords: records,
	}
}
