package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"fmt"
	"time"
)

// Dashboard window and list sizes.
const (
	StatsWindowDays      = 7
	RecentWorkoutsLimit  = 5
	PersonalRecordsLimit = 5
)

// DashboardService computes the per-user summary on every request.
type DashboardService interface {
	GetStats(ctx context.Context, userID int64) (*domain.DashboardStats, error)
}

type dashboardService struct {
	statsRepo repository.StatsRepository
	now       func() time.Time
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(statsRepo repository.StatsRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo, now: time.Now}
}

// GetStats covers workouts dated on or after today minus seven days (UTC).
// Personal records are all-time.
func (s *dashboardService) GetStats(ctx context.Context, userID int64) (*domain.DashboardStats, error) {
	since := domain.TruncateToDate(s.now()).AddDate(0, 0, -StatsWindowDays)

	recent, err := s.statsRepo.RecentWorkouts(ctx, userID, since, RecentWorkoutsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent workouts: %w", err)
	}
	weekly, err := s.statsRepo.WeeklyVolume(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("weekly volume: %w", err)
	}
	records, err := s.statsRepo.PersonalRecords(ctx, userID, PersonalRecordsLimit)
	if err != nil {
		return nil, fmt.Errorf("personal records: %w", err)
	}

	return &domain.DashboardStats{
		RecentWorkouts:  recent,
		WeeklyStats:     weekly,
		PersonalRecords: records,
	}, nil
}
