package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-tracker/internal/domain"
)

func TestDashboard_WindowAndLimits(t *testing.T) {
	stats := &fakeStats{
		weekly:  domain.WeeklyStats{TotalDuration: intPtr(75), TotalWorkouts: 2},
		records: []domain.PersonalRecord{{Name: "Deadlift", MaxWeight: 140}},
	}
	svc := NewDashboardService(stats).(*dashboardService)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 23, 59, 0, 0, time.FixedZone("UTC+3", 3*3600)) }

	got, err := svc.GetStats(context.Background(), 1)
	require.NoError(t, err)

	// 23:59 at UTC+3 is 20:59 UTC on the 18th.
	assert.Equal(t, day(2026, 10, 11), stats.since)
	assert.Equal(t, []int{RecentWorkoutsLimit, PersonalRecordsLimit}, stats.limits)
	assert.Equal(t, 75, *got.WeeklyStats.TotalDuration)
	assert.Equal(t, "Deadlift", got.PersonalRecords[0].Name)
}

func TestDashboard_Empty(t *testing.T) {
	svc := NewDashboardService(&fakeStats{
		recent:  []domain.WorkoutSummary{},
		records: []domain.PersonalRecord{},
	})

	got, err := svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got.RecentWorkouts)
	assert.Nil(t, got.WeeklyStats.TotalDuration)
	assert.Zero(t, got.WeeklyStats.TotalWorkouts)
	assert.Empty(t, got.PersonalRecords)
}

func TestDashboard_StoreError(t *testing.T) {
	boom := errors.New("timeout")
	_, err := NewDashboardService(&fakeStats{err: boom}).GetStats(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}
