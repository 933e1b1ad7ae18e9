package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apidocs "github.com/isdelr/task-manager-be/api"
	"github.com/isdelr/task-manager-be/internal/api"
	"github.com/isdelr/task-manager-be/internal/api/handlers"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/config"
	"github.com/isdelr/task-manager-be/internal/database"
	"github.com/isdelr/task-manager-be/internal/logger"
	"github.com/isdelr/task-manager-be/internal/metrics"
	"github.com/isdelr/task-manager-be/internal/monitoring"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/isdelr/task-manager-be/internal/storage"
	"github.com/isdelr/task-manager-be/internal/storage/mongostore"
	"github.com/isdelr/task-manager-be/internal/storage/sqlstore"
	"github.com/isdelr/task-manager-be/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Set up storage
	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to initialize store")
	}
	defer store.Close()

	// Set up metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("task_manager", reg)

	// Set up services
	userService := services.NewUserService(store, cfg.BcryptCost)
	taskService := services.NewTaskService(store)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	err = userService.EnsureAdmin(seedCtx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	cancelSeed()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin user")
	}

	// Set up and run the background stats scheduler
	scheduler := monitoring.NewScheduler(store, m, cfg.StatsSchedule, m.StatsRefreshFailures.Inc)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.StatsSchedule).Msg("Failed to start stats scheduler")
	}

	docs, err := handlers.NewDocsHandler(context.Background(), apidocs.OpenAPISpec)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load API documentation")
	}

	// Set up router
	router := api.NewRouter(api.Dependencies{
		UserService: userService,
		TaskService: taskService,
		Tokens:      tokens,
		Guard:       auth.NewGuard(tokens, store),
		Metrics:     m,
		Gatherer:    reg,
		Docs:        docs,
		Static:      web.StaticFS(),
		CORSOrigins: cfg.CORSOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Str("driver", cfg.StoreDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// openStore connects the storage backend selected by STORE_DRIVER.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres, config.DriverSQLite:
		dsn := cfg.DatabasePath
		if cfg.StoreDriver == config.DriverPostgres {
			dsn = cfg.DatabaseURL
		}
		db, err := database.New(cfg.StoreDriver, dsn)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return sqlstore.New(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
