package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fitness_tracker"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	workoutsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workouts_created_total",
		Help:      "Workouts successfully created.",
	})
	workoutConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workout_conflicts_total",
		Help:      "Workout writes rejected by the per-user (date, type) uniqueness rule.",
	})
	loginFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Login attempts rejected for bad credentials or disabled accounts.",
	})
	eventPublishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Workout events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, workoutsCreated, workoutConflicts, loginFailures, eventPublishFailures)
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordWorkoutCreated increments the created-workouts counter.
func RecordWorkoutCreated() { workoutsCreated.Inc() }

// RecordWorkoutConflict increments the uniqueness-conflict counter.
func RecordWorkoutConflict() { workoutConflicts.Inc() }

// RecordLoginFailure increments the failed-login counter.
func RecordLoginFailure() { loginFailures.Inc() }

// RecordEventPublishFailure increments the event publish failure counter.
func RecordEventPublishFailure() { eventPublishFailures.Inc() }
