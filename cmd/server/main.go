package main

import (
	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/app"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/gateway"
	"alcyxob/workout-tracker/internal/logging"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"
	"alcyxob/workout-tracker/internal/repository/mongo"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

type repositories struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	exercises repository.ExerciseRepository
	sessions  repository.SessionRepository
	sets      repository.SetRepository
	close     func()
}

func openRepositories(cfg config.DatabaseConfig) (*repositories, error) {
	if cfg.Driver == "memory" {
		log.Warn("Using the in-memory store, data is lost on restart")
		store := memory.New()
		return &repositories{
			users:     store.Users(),
			profiles:  store.Profiles(),
			exercises: store.Exercises(),
			sessions:  store.Sessions(),
			sets:      store.Sets(),
			close:     func() {},
		}, nil
	}

	dbClient, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return nil, err
	}
	appDB := dbClient.Database(cfg.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
	}()

	return &repositories{
		users:     mongo.NewMongoUserRepository(appDB),
		profiles:  mongo.NewMongoProfileRepository(appDB),
		exercises: mongo.NewMongoExerciseRepository(appDB),
		sessions:  mongo.NewMongoSessionRepository(appDB),
		sets:      mongo.NewMongoSetRepository(appDB),
		close: func() {
			log.Info("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.WithError(err).Error("Failed to disconnect MongoDB")
			}
		},
	}, nil
}

func openFileStorage(cfg config.S3Config) storage.FileStorage {
	if !cfg.Enabled {
		log.Info("S3 storage disabled, history export is unavailable")
		return storage.Disabled()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	fileStorage, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize S3 storage")
	}
	return fileStorage
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("Could not load config")
	}
	logging.Setup(logging.SetupParams{LogLevel: cfg.Log.Level, LogFormatJSON: cfg.Log.JSON})
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	log.Info("Starting Workout Tracker Server...")

	repos, err := openRepositories(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Could not connect to the database")
	}
	defer repos.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("workout", "tracker", reg)

	gw := gateway.New(repos.profiles, repos.exercises, repos.sessions, repos.sets, cfg.Gateway.Timeout)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), time.Minute)
	if _, err := gw.SeedCatalog(seedCtx); err != nil {
		log.WithError(err).Error("Failed to seed the exercise catalog")
	}
	cancelSeed()

	authService := service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration,
		service.GoogleProvider(cfg.OAuth.Google))
	exportService := service.NewExportService(openFileStorage(cfg.S3))

	registry := app.NewRegistry(gw, metricsManager)
	authService.Subscribe(registry.Observe)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, api.Dependencies{
		AuthService:   authService,
		ExportService: exportService,
		Registry:      registry,
		Metrics:       metricsManager,
		Gatherer:      reg,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exiting.")
}
