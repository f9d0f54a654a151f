package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/storage"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const exportContentType = "text/csv"

var exportHeader = []string{
	"workout_id", "date", "type", "duration", "distance", "notes",
	"exercise", "sets", "reps", "weight", "exercise_duration",
}

// ExportResult points at a finished export.
type ExportResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders a user's workout history to CSV in object storage.
type ExportService interface {
	ExportWorkouts(ctx context.Context, userID int64) (*ExportResult, error)
}

type exportService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
	urlExpiry    time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewExportService creates a new instance of exportService. fileStorage may be
// nil, in which case every export fails with ErrExportUnavailable.
func NewExportService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	fileStorage storage.FileStorage,
	urlExpiry time.Duration,
	logger *zap.Logger,
) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
		urlExpiry:    urlExpiry,
		logger:       logger,
		now:          time.Now,
	}
}

// ExportWorkouts uploads exports/<user>/<uuid>.csv and returns a presigned link.
func (s *exportService) ExportWorkouts(ctx context.Context, userID int64) (*ExportResult, error) {
	if s.fileStorage == nil {
		return nil, ErrExportUnavailable
	}

	workouts, err := s.workoutRepo.List(ctx, userID, domain.WorkoutFilter{})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	exercises, err := s.exerciseRepo.List(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	body, err := renderWorkoutsCSV(workouts, exercises)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%d/%s.csv", userID, uuid.NewString())
	if err := s.fileStorage.PutObject(ctx, key, exportContentType, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		// An unreachable object is useless; do not leave it behind.
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned export", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.logger.Info("workouts exported", zap.Int64("user_id", userID), zap.Int("workouts", len(workouts)))
	return &ExportResult{URL: url, ExpiresAt: s.now().UTC().Add(s.urlExpiry)}, nil
}

// renderWorkoutsCSV writes one row per exercise; a workout without exercises
// gets a single row with the exercise columns empty.
func renderWorkoutsCSV(workouts []domain.WorkoutSummary, exercises []domain.Exercise) ([]byte, error) {
	byWorkout := make(map[int64][]domain.Exercise, len(workouts))
	for _, e := range exercises {
		byWorkout[e.WorkoutID] = append(byWorkout[e.WorkoutID], e)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, wk := range workouts {
		base := []string{
			strconv.FormatInt(wk.ID, 10),
			wk.Date.Format(domain.DateLayout),
			string(wk.Type),
			formatInt(wk.Duration),
			formatFloat(wk.Distance),
			wk.Notes,
		}
		rows := byWorkout[wk.ID]
		if len(rows) == 0 {
			if err := w.Write(append(base, "", "", "", "", "")); err != nil {
				return nil, err
			}
			continue
		}
		for _, e := range rows {
			record := append(append([]string{}, base...),
				e.Name, formatInt(e.Sets), formatInt(e.Reps), formatFloat(e.Weight), formatInt(e.Duration))
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
