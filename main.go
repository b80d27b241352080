package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/lead-tracker/internal/api"
	"github.com/jonesrussell/lead-tracker/internal/auth"
	"github.com/jonesrussell/lead-tracker/internal/config"
	"github.com/jonesrussell/lead-tracker/internal/database"
	"github.com/jonesrussell/lead-tracker/internal/events"
	"github.com/jonesrussell/lead-tracker/internal/handlers"
	"github.com/jonesrussell/lead-tracker/internal/logger"
	"github.com/jonesrussell/lead-tracker/internal/metrics"
	"github.com/jonesrussell/lead-tracker/internal/repository"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: config and logger
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	// Phase 3: event publisher (optional)
	publisher := setupPublisher(cfg, log)

	// Phase 4: repositories and handlers
	userRepo := repository.NewUserRepository(db.DB(), log)
	extractedRepo := repository.NewExtractedDataRepository(db.DB(), log)
	leadRepo := repository.NewLeadRepository(db.DB(), log)
	jobRepo := repository.NewJobRepository(db.DB(), log)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	m := metrics.NewMetrics()

	routeHandlers := api.Handlers{
		Auth:          handlers.NewAuthHandler(userRepo, tokens, log),
		ExtractedData: handlers.NewExtractedDataHandler(extractedRepo, publisher, log),
		Leads:         handlers.NewLeadHandler(leadRepo, publisher, log),
		Jobs:          handlers.NewJobHandler(jobRepo, publisher, log),
		Health:        handlers.NewHealthHandler(db, cfg, m),
	}

	// Phase 5: HTTP server
	router := api.NewRouter(cfg, routeHandlers, tokens, userRepo, m, log)
	server := api.NewServer(cfg, router, log)

	log.Info("Starting lead-tracker",
		logger.Int("port", cfg.Service.Port),
		logger.String("environment", cfg.Service.Environment),
		logger.Bool("protect_records", cfg.Auth.ProtectRecords),
	)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Server exited")
	return 0
}

// setupPublisher connects Redis event publishing when enabled. A nil
// publisher disables publishing everywhere downstream.
func setupPublisher(cfg *config.Config, log logger.Logger) *events.Publisher {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	log.Info("Event publishing enabled", logger.String("address", cfg.Redis.Address))
	return events.NewPublisher(client, log)
}
