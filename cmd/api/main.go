package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cybershield/internal/api"
	"cybershield/internal/api/handlers"
	"cybershield/internal/config"
	"cybershield/internal/domain/services"
	"cybershield/internal/domain/services/ai"
	"cybershield/internal/infrastructure/cache"
	"cybershield/internal/infrastructure/database"
	"cybershield/internal/infrastructure/database/repository"
	"cybershield/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting CyberShield")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache, err := initInfrastructure(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize infrastructure")
	}
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize repositories
	var repos *repository.Repositories
	if db != nil {
		if err := db.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to apply database schema")
		}
		repos = repository.NewRepositories(db, log)
		log.Info().Msg("repositories initialized with database")
	} else {
		log.Warn().Msg("running without database - history and dashboard unavailable")
	}

	// Initialize the LLM augmentation client
	var llm *ai.LLMClient
	if cfg.AI.Enabled {
		llm = ai.NewLLMClient(ai.Config{
			Provider:     cfg.AI.Provider,
			ClaudeAPIKey: cfg.AI.ClaudeAPIKey,
			OpenAIAPIKey: cfg.AI.OpenAIAPIKey,
			Model:        cfg.AI.Model,
			Temperature:  cfg.AI.Temperature,
			MaxTokens:    cfg.AI.MaxTokens,
			Timeout:      cfg.AI.Timeout,
		}, log)
		log.Info().Str("provider", cfg.AI.Provider).Bool("credentials", llm.Enabled()).Msg("LLM augmentation initialized")
	}

	// Initialize evaluators
	patterns := services.NewPatternLibrary()
	urlAnalyzer := services.NewURLAnalyzer(patterns, llm, log)
	messageAnalyzer := services.NewMessageAnalyzer(patterns, llm, log)
	passwordAnalyzer := services.NewPasswordAnalyzer(patterns, log)

	breachClient := services.NewBreachClient(services.BreachConfig{
		BaseURL: cfg.Breach.BaseURL,
		APIKey:  cfg.Breach.APIKey,
		Timeout: cfg.Breach.Timeout,
	}, log)

	var analysisStore services.AnalysisStore
	var auditStore services.AuditStore
	if repos != nil {
		analysisStore = repos.Analyses
		auditStore = repos.Audit
	}
	analysisService := services.NewAnalysisService(
		urlAnalyzer, messageAnalyzer,
		analysisStore, auditStore,
		cfg.Analysis.MaxInputSize, log,
	)

	// Initialize handlers and router
	h := handlers.NewHandlers(handlers.Dependencies{
		Analysis:  analysisService,
		URLs:      urlAnalyzer,
		Messages:  messageAnalyzer,
		Passwords: passwordAnalyzer,
		Breach:    breachClient,
		Cache:     redisCache,
		Repos:     repos,
		Logger:    log,
	})
	router := api.NewRouter(cfg, h, redisCache, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure initializes database and cache connections
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache, error) {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		// The evaluators work without persistence
		log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
		db = nil
	}

	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		return db, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return db, redisCache, nil
}
