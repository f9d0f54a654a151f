package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
)

// ExerciseService manages exercises inside the caller's workouts.
type ExerciseService interface {
	CreateExercise(ctx context.Context, userID int64, exercise *domain.Exercise) (*domain.Exercise, error)
	ListExercises(ctx context.Context, userID int64, workoutID *int64) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, userID, exerciseID int64) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, userID, exerciseID int64, patch domain.ExercisePatch) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, exerciseID int64) error
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	workoutRepo  repository.WorkoutRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, workoutRepo repository.WorkoutRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		workoutRepo:  workoutRepo,
	}
}

// CreateExercise adds an exercise to one of the caller's workouts. A missing or
// foreign workout is a validation error on workout_id and nothing is written.
func (s *exerciseService) CreateExercise(ctx context.Context, userID int64, exercise *domain.Exercise) (*domain.Exercise, error) {
	// No workout can have a non-positive id; an absent key is rejected at binding.
	if exercise.WorkoutID <= 0 {
		return nil, NewValidationError("workout_id", msgWorkoutNotFound)
	}
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}

	workout, err := s.workoutRepo.GetByID(ctx, userID, exercise.WorkoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("workout_id", msgWorkoutNotFound)
		}
		return nil, err
	}
	exercise.UserID = workout.UserID

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		// The workout vanished between lookup and insert.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("workout_id", msgWorkoutNotFound)
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context, userID int64, workoutID *int64) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx, userID, workoutID)
}

func (s *exerciseService) GetExercise(ctx context.Context, userID, exerciseID int64) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, userID, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// UpdateExercise applies patch; the parent workout cannot change.
func (s *exerciseService) UpdateExercise(ctx context.Context, userID, exerciseID int64, patch domain.ExercisePatch) (*domain.Exercise, error) {
	exercise, err := s.GetExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	patch.Apply(exercise)
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}
	if err := s.exerciseRepo.Update(ctx, userID, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID int64) error {
	if err := s.exerciseRepo.Delete(ctx, userID, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateExercise(e *domain.Exercise) error {
	verr := &ValidationError{}
	if e.Name == "" {
		verr.Add("name", msgRequired)
	}
	for field, v := range map[string]*int{"sets": e.Sets, "reps": e.Reps, "duration": e.Duration} {
		if v != nil && *v < 0 {
			verr.Add(field, "Ensure this value is greater than or equal to 0.")
		}
	}
	return verr.orNil()
}
