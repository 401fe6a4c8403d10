package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spread-entry-engine/config"
	"spread-entry-engine/internal/api"
	"spread-entry-engine/internal/auth"
	"spread-entry-engine/internal/cache"
	"spread-entry-engine/internal/database"
	"spread-entry-engine/internal/engine"
	"spread-entry-engine/internal/events"
	"spread-entry-engine/internal/logging"
	"spread-entry-engine/internal/vault"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logging
	logger := logging.New(logging.Config{
		Level:   cfg.LoggingConfig.Level,
		Output:  cfg.LoggingConfig.Output,
		Console: cfg.LoggingConfig.Console,
	})
	logger.Info().Msg("Structured logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Vault client resolves secrets when enabled, otherwise serves as a
	// passthrough to configured values
	vaultClient, err := vault.NewClient(vault.Config{
		Enabled:    cfg.VaultConfig.Enabled,
		Address:    cfg.VaultConfig.Address,
		Token:      cfg.VaultConfig.Token,
		MountPath:  cfg.VaultConfig.MountPath,
		SecretPath: cfg.VaultConfig.SecretPath,
		TLSEnabled: cfg.VaultConfig.TLSEnabled,
		CACert:     cfg.VaultConfig.CACert,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create vault client")
	}
	if cfg.VaultConfig.Enabled {
		if err := vaultClient.HealthCheck(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Vault health check failed")
		}
		logger.Info().Msg("Vault client connected")
	}

	// Event bus
	eventBus := events.NewEventBus()

	// Database (optional decision audit log)
	var db *database.DB
	if cfg.DatabaseConfig.Enabled {
		dbPassword := vaultClient.GetSecretOrDefault(ctx, "db-password", cfg.DatabaseConfig.Password)
		db, err = database.NewDB(ctx, database.Config{
			Enabled:  true,
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: dbPassword,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Info().Msg("Database connected and migrated")
	} else {
		logger.Info().Msg("Database disabled, decisions will not be persisted")
	}

	// Redis-backed decision cache with in-memory fallback
	var redisClient *redis.Client
	if cfg.RedisConfig.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Address,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
			PoolSize: cfg.RedisConfig.PoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("Redis unreachable, falling back to in-memory cache")
			redisClient = nil
		} else {
			logger.Info().Str("address", cfg.RedisConfig.Address).Msg("Redis connected")
		}
	}
	decisionCache := cache.New(redisClient, cfg.EngineConfig.CacheTTLDuration(), logger)

	// Optional JWT auth for the API surface
	var jwtManager *auth.JWTManager
	if cfg.AuthConfig.Enabled {
		jwtSecret := vaultClient.GetSecretOrDefault(ctx, "jwt-secret", cfg.AuthConfig.JWTSecret)
		if jwtSecret == "" {
			logger.Fatal().Msg("AUTH_ENABLED requires a JWT secret")
		}
		jwtManager = auth.NewJWTManager(jwtSecret, cfg.AuthConfig.TokenDuration)
		logger.Info().Msg("API authentication enabled")
	}

	// Decision engine
	decisionEngine := engine.New()

	// HTTP API server
	server := api.NewServer(api.ServerConfig{
		Port:                  cfg.ServerConfig.Port,
		Host:                  cfg.ServerConfig.Host,
		ProductionMode:        cfg.ServerConfig.ProductionMode,
		AllowedOrigins:        cfg.ServerConfig.AllowedOrigins,
		DefaultAccountSize:    cfg.EngineConfig.AccountSize,
		DefaultMaxRiskPercent: cfg.EngineConfig.MaxRiskPercent,
	}, decisionEngine, db, decisionCache, eventBus, jwtManager, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	eventBus.Publish(events.Event{
		Type: events.EventServiceStarted,
		Data: map[string]interface{}{
			"port": cfg.ServerConfig.Port,
		},
	})
	logger.Info().Int("port", cfg.ServerConfig.Port).Msg("Entry decision engine started")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")
	eventBus.Publish(events.Event{Type: events.EventServiceStopped})

	shutdownTimeout := time.Duration(cfg.ServerConfig.ShutdownTimeout) * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info().Msg("Shutdown complete")
}
