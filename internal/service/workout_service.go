package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/events"
	"alcyxob/fitness-tracker/internal/observability"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// defaultPublishTimeout bounds how long a workout write waits on the event broker.
const defaultPublishTimeout = 2 * time.Second

// WorkoutService manages the caller's workouts. Every call is scoped to userID.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, userID int64, workout *domain.Workout) (*domain.WorkoutDetail, error)
	ListWorkouts(ctx context.Context, userID int64, filter domain.WorkoutFilter) ([]domain.WorkoutSummary, error)
	GetWorkout(ctx context.Context, userID, workoutID int64) (*domain.WorkoutDetail, error)
	UpdateWorkout(ctx context.Context, userID, workoutID int64, patch domain.WorkoutPatch) (*domain.WorkoutDetail, error)
	DeleteWorkout(ctx context.Context, userID, workoutID int64) error
}

// --- Service Implementation ---

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
	publisher    events.Publisher
	logger       *zap.Logger
	now          func() time.Time

	publishTimeout time.Duration
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) WorkoutService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,

		publishTimeout: defaultPublishTimeout,
	}
}

// CreateWorkout stores a workout owned by userID, whatever owner the payload
// claimed. The store's (user, date, type) uniqueness is the only duplicate check.
func (s *workoutService) CreateWorkout(ctx context.Context, userID int64, workout *domain.Workout) (*domain.WorkoutDetail, error) {
	if err := validateWorkout(workout); err != nil {
		return nil, err
	}
	workout.UserID = userID
	workout.Date = domain.TruncateToDate(workout.Date)

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, translateConflict(err)
	}
	observability.RecordWorkoutCreated()
	s.publish(ctx, domain.WorkoutCreated, workout)

	return s.detail(ctx, workout)
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID int64, filter domain.WorkoutFilter) ([]domain.WorkoutSummary, error) {
	if filter.Date != nil {
		day := domain.TruncateToDate(*filter.Date)
		filter.Date = &day
	}
	return s.workoutRepo.List(ctx, userID, filter)
}

func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID int64) (*domain.WorkoutDetail, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, workout)
}

// UpdateWorkout applies patch to the caller's workout. Moving it onto a
// (date, type) slot the caller already uses yields the same conflict as create.
func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID int64, patch domain.WorkoutPatch) (*domain.WorkoutDetail, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	patch.Apply(workout)
	workout.Date = domain.TruncateToDate(workout.Date)
	if err := validateWorkout(workout); err != nil {
		return nil, err
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateConflict(err)
	}
	s.publish(ctx, domain.WorkoutUpdated, workout)

	return s.detail(ctx, workout)
}

// DeleteWorkout removes the workout and, through the store, its exercises.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID int64) error {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, userID, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, domain.WorkoutDeleted, workout)
	return nil
}

func (s *workoutService) ownedWorkout(ctx context.Context, userID, workoutID int64) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, userID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) detail(ctx context.Context, workout *domain.Workout) (*domain.WorkoutDetail, error) {
	owner, err := s.userRepo.GetByID(ctx, workout.UserID)
	if err != nil {
		return nil, fmt.Errorf("load workout owner: %w", err)
	}
	owner.PasswordHash = ""

	workoutID := workout.ID
	exercises, err := s.exerciseRepo.List(ctx, workout.UserID, &workoutID)
	if err != nil {
		return nil, fmt.Errorf("load workout exercises: %w", err)
	}
	return &domain.WorkoutDetail{Workout: *workout, User: *owner, Exercises: exercises}, nil
}

// publish is best-effort: a failed event never fails the write that caused it.
func (s *workoutService) publish(ctx context.Context, kind domain.WorkoutEventKind, workout *domain.Workout) {
	event := domain.NewWorkoutEvent(kind, workout, s.now())
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		observability.RecordEventPublishFailure()
		s.logger.Warn("failed to publish workout event",
			zap.String("event", string(kind)),
			zap.Int64("workout_id", workout.ID),
			zap.Error(err))
	}
}

func validateWorkout(w *domain.Workout) error {
	verr := &ValidationError{}
	if w.Date.IsZero() {
		verr.Add("date", msgRequired)
	}
	if !w.Type.IsValid() {
		verr.Add("type", fmt.Sprintf("%q is not a valid choice.", string(w.Type)))
	}
	if w.Duration != nil && *w.Duration < 0 {
		verr.Add("duration", "Ensure this value is greater than or equal to 0.")
	}
	return verr.orNil()
}

// translateConflict turns the store's uniqueness signal into the user-facing error.
func translateConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicateWorkout) {
		observability.RecordWorkoutConflict()
		return NewValidationError(NonFieldErrors, msgWorkoutConflict)
	}
	return err
}
