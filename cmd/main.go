/**
 * @description
 * This is the main entry point for the marketplace service. It initializes
 * and wires together all the components of the application: configuration,
 * database connection, repositories, services, external clients, the cron
 * scheduler and the HTTP router. Finally, it starts the HTTP server and
 * shuts everything down gracefully on SIGINT/SIGTERM.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/centralpay/marketplace-service/internal/api"
	"github.com/centralpay/marketplace-service/internal/app"
	"github.com/centralpay/marketplace-service/internal/config"
	"github.com/centralpay/marketplace-service/internal/store"
	"github.com/centralpay/marketplace-service/pkg/gatewayclient"
	"github.com/centralpay/marketplace-service/pkg/rabbitmq"
	"github.com/centralpay/marketplace-service/pkg/storeclient"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load application configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Establish connection to the PostgreSQL database with connection pool configuration
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = 50
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Use simple protocol so the pool keeps working behind PgBouncer
	// transaction pooling (avoids statement cache errors, SQLSTATE 42P05).
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// Event publishing degrades to a logging fallback when RabbitMQ is down.
	var publisher rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, using fallback publisher", "error", err)
			publisher = &rabbitmq.EventProducerFallback{}
		} else {
			publisher = producer
		}
	} else {
		publisher = &rabbitmq.EventProducerFallback{}
	}
	defer publisher.Close()

	// Redis backs the webhook rate limiter; without it limiting is disabled.
	var limiter *app.RedisWebhookRateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, webhook rate limiting disabled", "error", err)
		} else {
			limiter = app.NewRedisWebhookRateLimiter(redis.NewClient(opts), "marketplace:rate_limit")
		}
	}

	// Initialize application layers
	sellerRepo := store.NewSellerRepository(dbpool)
	subscriptionRepo := store.NewSubscriptionRepository(dbpool)

	gateway := gatewayclient.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey)
	storePlatform := storeclient.NewClient(cfg.StoreAPIURL, cfg.StoreAPIToken)

	calculator := app.NewSplitCalculator(config.NewEnvSplitPolicy())
	validator := app.NewSubscriptionValidator(subscriptionRepo)
	sellerService := app.NewSellerService(sellerRepo, subscriptionRepo, gateway, calculator, validator, publisher)
	webhookProcessor := app.NewWebhookProcessor(subscriptionRepo, publisher)

	jobs := app.NewJobs(subscriptionRepo, gateway, logger)
	scheduler := app.NewScheduler(jobs, logger, cfg.SubscriptionSyncSchedule)
	scheduler.Start()

	handler := api.NewHandler(sellerService, storePlatform, sellerRepo, jobs)
	webhookHandler := api.NewWebhookHandler(webhookProcessor, limiter, cfg.WebhookSecret)
	router := api.NewRouter(handler, webhookHandler, validator, cfg.InternalAPIKey, cfg.AdminJWTSecret)

	// Configure and start the HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an OS signal
	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	<-scheduler.Stop().Done()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
