// cmd/api/main.go
// Main entry point for the discovery API
// This file bootstraps all components and starts the server

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

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/database"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
	"github.com/imadgeboyega/kiekky-discovery/internal/config"
	"github.com/imadgeboyega/kiekky-discovery/internal/dating"
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "discovery api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load and validate configuration
	cfg := config.Load()
	log := logger.NewStructured(cfg.LogLevel, cfg.LogFormat)

	if envErr != nil {
		log.Warn("No .env file found, using environment variables", map[string]interface{}{"error": envErr})
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Info("Starting Kiekky discovery API", map[string]interface{}{
		"environment": cfg.Environment,
		"port":        cfg.Port,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info("Connected to PostgreSQL", nil)

	// 4. Connect to Redis (optional)
	var cache *dating.ProfileCache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, continuing without profile cache", map[string]interface{}{"error": err})
		} else {
			defer redisClient.Close()
			cache = dating.NewProfileCache(redisClient, cfg.ProfileCacheTTL, log)
			log.Info("Connected to Redis", nil)
		}
	}

	// 5. Realtime events
	var hub *dating.Hub
	publisher := dating.NewNoopPublisher()
	if cfg.EnableRealtime {
		hub = dating.NewHub(log)
		go hub.Run(ctx)
		publisher = hub
	}

	// 6. Scoring and discovery
	scorer := recommend.NewScorer(log,
		recommend.WithDefaultMaxDistance(cfg.DefaultMaxDistanceKm),
		recommend.WithWorkers(cfg.ScoringWorkers),
		recommend.WithParallelThreshold(cfg.ParallelScoringThreshold),
	)

	service := dating.NewService(
		dating.NewPostgresRepository(db),
		cache,
		scorer,
		publisher,
		dating.ServiceConfig{
			DefaultLimit:         cfg.RecommendationLimit,
			CandidatePoolSize:    cfg.CandidatePoolSize,
			HotpicksPerUser:      cfg.HotpicksPerUser,
			HotpicksTTL:          cfg.HotpicksTTL,
			ActiveUserWindowDays: cfg.ActiveUserWindowDays,
		},
		log,
	)

	dating.NewScheduler(service, cfg.HotpicksHour, log).Start(ctx)

	// 7. HTTP server
	handler := dating.NewHandler(service, hub, cfg.RecommendationLimit, cfg.MaxRecommendationLimit, log)
	router := newRouter(handler, auth.NewMiddleware(cfg.JWTSecret), log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server stopped", nil)
	return nil
}
