package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_EmptyShape(t *testing.T) {
	router := newTestRouter(Services{Dashboard: &fakeDashboard{stats: &domain.DashboardStats{}}})

	rec := do(t, router, http.MethodGet, "/api/dashboard/stats/", "", 7)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"recent_workouts":[],"weekly_stats":{"total_duration":null,"total_workouts":0},"personal_records":[]}`,
		rec.Body.String())
}

func TestDashboard_WithData(t *testing.T) {
	stats := &domain.DashboardStats{
		RecentWorkouts:  []domain.WorkoutSummary{{Workout: sampleDetail(7).Workout, ExerciseCount: 2}},
		WeeklyStats:     domain.WeeklyStats{TotalDuration: intPtr(95), TotalWorkouts: 3},
		PersonalRecords: []domain.PersonalRecord{{Name: "Deadlift", MaxWeight: 140}},
	}
	router := newTestRouter(Services{Dashboard: &fakeDashboard{stats: stats}})

	rec := do(t, router, http.MethodGet, "/api/dashboard/stats", "", 7)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, map[string]any{"total_duration": float64(95), "total_workouts": float64(3)}, body["weekly_stats"])
	assert.Equal(t, []any{map[string]any{"name": "Deadlift", "max_weight": float64(140)}}, body["personal_records"])
	assert.Len(t, body["recent_workouts"], 1)
}

func TestDashboard_StoreFailure(t *testing.T) {
	router := newTestRouter(Services{Dashboard: &fakeDashboard{err: errBoom}})

	rec := do(t, router, http.MethodGet, "/api/dashboard/stats/", "", 7)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgServerError, decodeBody(t, rec)["detail"])
}

func TestRouter_Infrastructure(t *testing.T) {
	workouts := &fakeWorkouts{list: func(int64, domain.WorkoutFilter) ([]domain.WorkoutSummary, error) {
		panic("boom")
	}}
	router := newTestRouter(Services{Workouts: workouts})

	t.Run("ping", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/ping", "", 0)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", decodeBody(t, rec)["message"])
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/nope/", "", 7)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, msgNotFound, decodeBody(t, rec)["detail"])
	})

	t.Run("panic becomes 500", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/workouts/", "", 7)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, msgServerError, decodeBody(t, rec)["detail"])
	})

	t.Run("metrics", func(t *testing.T) {
		do(t, router, http.MethodGet, "/ping", "", 0)
		rec := do(t, router, http.MethodGet, "/metrics", "", 0)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "fitness_tracker_http_requests_total")
	})
}

func TestWithCORS(t *testing.T) {
	h := WithCORS(newTestRouter(Services{}), []string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/api/workouts/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/workouts/", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
