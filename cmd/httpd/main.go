package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/raagahub/moderation/internal/api"
	"github.com/raagahub/moderation/internal/config"
	"github.com/raagahub/moderation/internal/database"
	"github.com/raagahub/moderation/internal/logger"
	"github.com/raagahub/moderation/internal/moderation"
	"github.com/raagahub/moderation/internal/ratelimit"
	"github.com/raagahub/moderation/internal/safety"
	"github.com/raagahub/moderation/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load("config.yml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Connect to database
	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sqlx.DB, error) {
	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     strconv.Itoa(cfg.Database.Port),
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer wires all dependencies and runs the HTTP server until a
// shutdown signal arrives.
func runServer(cfg *config.Config, log logger.Logger, db *sqlx.DB) int {
	tp := telemetry.NewProvider()

	comments := database.NewCommentsRepository(db)
	limits := database.NewRateLimitRepository(db)

	limiter := ratelimit.NewLimiter(limits, log)
	classifier := safety.NewCommentClassifier(nil)
	pipeline := moderation.NewPipeline(comments, limiter, classifier, tp, log)

	handler := api.NewHandler(pipeline, limiter, classifier, tp, log)
	server := api.NewServer(handler, cfg, tp)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Moderation service starting",
			logger.Int("port", cfg.Service.Port),
			logger.Bool("debug", cfg.Service.Debug),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
			return 1
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", logger.Error(err))
			return 1
		}
	}

	log.Info("Moderation service stopped")
	return 0
}
