package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(workoutConflicts)
	RecordWorkoutConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(workoutConflicts))

	before = testutil.ToFloat64(loginFailures)
	RecordLoginFailure()
	RecordLoginFailure()
	assert.Equal(t, before+2, testutil.ToFloat64(loginFailures))
}

func TestObserveHTTPRequest(t *testing.T) {
	ObserveHTTPRequest(http.MethodGet, "/api/workouts/", http.StatusOK, 15*time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/workouts/", "200")))

	ObserveHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}
