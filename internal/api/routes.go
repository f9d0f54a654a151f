package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth      service.AuthService
	Profile   service.ProfileService
	Workouts  service.WorkoutService
	Exercises service.ExerciseService
	Dashboard service.DashboardService
	Export    service.ExportService
}

// NewRouter builds a gin engine with logging, recovery and metrics installed
// and all routes registered.
func NewRouter(logger *zap.Logger, services Services) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(Recovery(logger), RequestLogger(logger), Metrics())
	SetupRoutes(router, logger, services)
	return router
}

// SetupRoutes registers every endpoint. API paths are served with and without
// the trailing slash.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, services Services) {
	authHandler := NewAuthHandler(services.Auth, logger)
	profileHandler := NewProfileHandler(services.Profile, logger)
	workoutHandler := NewWorkoutHandler(services.Workouts, services.Export, logger)
	exerciseHandler := NewExerciseHandler(services.Exercises, logger)
	dashboardHandler := NewDashboardHandler(services.Dashboard, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, msgNotFound)
	})

	apiGroup := router.Group("/api")
	{
		handle(apiGroup, http.MethodPost, "/users/register", authHandler.Register)
		handle(apiGroup, http.MethodPost, "/users/login", authHandler.Login)
		handle(apiGroup, http.MethodPost, "/token/refresh", authHandler.Refresh)
	}

	protected := apiGroup.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		// --- Profile ---
		handle(protected, http.MethodGet, "/users/profile", profileHandler.GetProfile)
		handle(protected, http.MethodPut, "/users/profile", profileHandler.ReplaceProfile)
		handle(protected, http.MethodPatch, "/users/profile", profileHandler.PatchProfile)

		// --- Workouts ---
		handle(protected, http.MethodGet, "/workouts", workoutHandler.ListWorkouts)
		handle(protected, http.MethodPost, "/workouts", workoutHandler.CreateWorkout)
		handle(protected, http.MethodPost, "/workouts/export", workoutHandler.ExportWorkouts)
		handle(protected, http.MethodGet, "/workouts/:id", workoutHandler.GetWorkout)
		handle(protected, http.MethodPut, "/workouts/:id", workoutHandler.ReplaceWorkout)
		handle(protected, http.MethodPatch, "/workouts/:id", workoutHandler.PatchWorkout)
		handle(protected, http.MethodDelete, "/workouts/:id", workoutHandler.DeleteWorkout)

		// --- Exercises ---
		handle(protected, http.MethodGet, "/exercises", exerciseHandler.ListExercises)
		handle(protected, http.MethodPost, "/exercises", exerciseHandler.CreateExercise)
		handle(protected, http.MethodGet, "/exercises/:id", exerciseHandler.GetExercise)
		handle(protected, http.MethodPut, "/exercises/:id", exerciseHandler.ReplaceExercise)
		handle(protected, http.MethodPatch, "/exercises/:id", exerciseHandler.PatchExercise)
		handle(protected, http.MethodDelete, "/exercises/:id", exerciseHandler.DeleteExercise)

		// --- Dashboard ---
		handle(protected, http.MethodGet, "/dashboard/stats", dashboardHandler.GetStats)
	}
}

// handle registers path both with and without a trailing slash.
func handle(group *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	path = strings.TrimSuffix(path, "/")
	group.Handle(method, path, handlers...)
	group.Handle(method, path+"/", handlers...)
}
