package main

import (
	"alcyxob/fitness-tracker/internal/api"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/events"
	"alcyxob/fitness-tracker/internal/logger"
	"alcyxob/fitness-tracker/internal/migrate"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	"alcyxob/fitness-tracker/internal/repository/postgres"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// repositories groups the backend-specific implementations behind the
// repository interfaces.
type repositories struct {
	users     repository.UserRepository
	workouts  repository.WorkoutRepository
	exercises repository.ExerciseRepository
	stats     repository.StatsRepository
	close     func()
}

// @title Fitness Tracker API
// @version 1.0
// @description Personal workout log: accounts, workouts with exercises, and dashboard statistics.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl.Info("starting fitness tracker", zap.String("driver", cfg.Database.Driver))

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	repos, err := openRepositories(ctx, cfg.Database, zl)
	cancel()
	if err != nil {
		zl.Fatal("could not open database", zap.Error(err))
	}
	defer repos.close()

	// --- Events ---
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		zl.Info("publishing workout events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zl.Warn("closing event publisher", zap.Error(err))
		}
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
		fileStorage, err = storage.NewS3Storage(initCtx, cfg.S3, zl)
		initCancel()
		if err != nil {
			zl.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		zl.Info("s3 bucket not configured, workout export disabled")
	}

	// --- Initialize Services ---
	authService, err := service.NewAuthService(repos.users, service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, zl)
	if err != nil {
		zl.Fatal("failed to initialize auth service", zap.Error(err))
	}
	services := api.Services{
		Auth:      authService,
		Profile:   service.NewProfileService(repos.users),
		Workouts:  service.NewWorkoutService(repos.workouts, repos.exercises, repos.users, publisher, zl),
		Exercises: service.NewExerciseService(repos.exercises, repos.workouts),
		Dashboard: service.NewDashboardService(repos.stats),
		Export:    service.NewExportService(repos.workouts, repos.exercises, fileStorage, cfg.S3.URLExpiry, zl),
	}

	// --- Initialize Gin Engine ---
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(zl, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.WithCORS(router, cfg.Server.CORSOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		zl.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		zl.Error("listen failed", zap.Error(err))
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	zl.Info("server exiting")
}

// openRepositories connects the configured backend and prepares its schema:
// goose migrations for postgres, indexes for mongo.
func openRepositories(ctx context.Context, cfg config.DatabaseConfig, zl *zap.Logger) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.AutoMigrate {
			if err := migrate.Up(ctx, cfg.DSN); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
			zl.Info("migrations applied")
		}
		db, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &repositories{
			users:     postgres.NewUserRepo(db),
			workouts:  postgres.NewWorkoutRepo(db),
			exercises: postgres.NewExerciseRepo(db),
			stats:     postgres.NewStatsRepo(db),
			close:     db.Close,
		}, nil

	case config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		appDB := client.Database(cfg.Name)
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return &repositories{
			users:     mongo.NewMongoUserRepository(appDB),
			workouts:  mongo.NewMongoWorkoutRepository(appDB),
			exercises: mongo.NewMongoExerciseRepository(appDB),
			stats:     mongo.NewMongoStatsRepository(appDB),
			close: func() {
				if err := mongo.DisconnectDB(client); err != nil {
					zl.Warn("disconnecting mongo", zap.Error(err))
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
