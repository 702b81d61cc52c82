// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bidmart/internal/config"
	"bidmart/internal/events"
	"bidmart/internal/handlers"
	"bidmart/internal/logging"
	"bidmart/internal/metrics"
	"bidmart/internal/middleware"
	"bidmart/internal/repositories"
	"bidmart/internal/repositories/cache"
	"bidmart/internal/routes"
	"bidmart/internal/scheduler"
	"bidmart/internal/services/penalty"
	"bidmart/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const version = "1.0.0"

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database, redis and the event publisher
// - Sets up dependency injection
// - Starts the expiry sweeper
// - Configures routes and serves until SIGINT/SIGTERM
func main() {
	// Load environment variables
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize databases (PostgreSQL + Redis)
	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	redisClient := cache.NewRedisClient(cfg.Redis)
	cacheService := cache.NewCacheService(redisClient, cfg.RiskScoreMaxAge)
	if err := cacheService.HealthCheck(context.Background()); err != nil {
		// Scores are recomputed on a cache miss, so keep serving.
		logger.Warn("redis unavailable at startup", zap.Error(err))
	}

	publisher := newPublisher(cfg, logger)

	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", zap.Error(err))
		}
		if err := cacheService.Close(); err != nil {
			logger.Warn("failed to close redis connection", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("failed to close database connection", zap.Error(err))
			}
		}
	}()

	// Services
	penaltyService := penalty.NewService(
		repositories.NewPenaltyRepository(db),
		repositories.NewPerformanceRepository(db),
		cacheService,
		publisher,
		penalty.MustDefaultCatalog(),
		penalty.Config{RiskScoreMaxAge: cfg.RiskScoreMaxAge},
		metrics.NewCollector("penalty"),
		logger,
	)
	walletService := wallet.NewService(
		repositories.NewWalletRepository(db),
		publisher,
		wallet.WalletConfig{
			DefaultCurrency:           cfg.DefaultCurrency,
			PlatformAccountID:         cfg.PlatformAccountID,
			DefaultPlatformFeePercent: &cfg.DefaultPlatformFeePercent,
		},
		metrics.NewCollector("wallet"),
		logger,
	)

	sweeper, err := scheduler.New(penaltyService, cfg.ExpirySweepSchedule, logger)
	if err != nil {
		logger.Fatal("scheduler init failed", zap.Error(err))
	}
	sweeper.Start()
	defer sweeper.Stop()

	stopStats := logPoolStats(db, cacheService, logger)
	defer stopStats()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "bidmart",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	// Middleware
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api", limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
				"code":  "RATE_LIMITED",
			})
		},
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routes
	routes.SetupRoutes(app, routes.Dependencies{
		Penalty: penaltyService,
		Wallet:  walletService,
		Health: handlers.NewHealthHandler(version,
			handlers.DependencyCheck{Name: "database", Check: func(ctx context.Context) error { return repositories.Ping(ctx, db) }},
			handlers.DependencyCheck{Name: "redis", Check: cacheService.HealthCheck},
		),
		Auth: middleware.NewAuthMiddleware(cfg.JWTSecret, logger),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newPublisher returns the Kafka publisher when enabled. Events are logged
// instead when Kafka is disabled or unreachable.
func newPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if !cfg.Kafka.Enabled {
		return events.NewLogPublisher(logger)
	}
	p, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.ClientID, cfg.Kafka.TopicPrefix, logger)
	if err != nil {
		logger.Error("kafka unavailable, logging events instead", zap.Error(err))
		return events.NewLogPublisher(logger)
	}
	return p
}

// logPoolStats reports connection pool usage once a minute until the
// returned stop func is called.
func logPoolStats(db *gorm.DB, cacheService *cache.CacheService, logger *zap.Logger) func() {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to get database instance", zap.Error(err))
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				redisStats := cacheService.GetStats()
				logger.Debug("pool stats",
					zap.Int("db_open", stats.OpenConnections),
					zap.Int("db_idle", stats.Idle),
					zap.Int("db_in_use", stats.InUse),
					zap.Int64("db_wait_count", stats.WaitCount),
					zap.Duration("db_wait", stats.WaitDuration),
					zap.Uint32("redis_hits", redisStats.Hits),
					zap.Uint32("redis_misses", redisStats.Misses),
					zap.Uint32("redis_total_conns", redisStats.TotalConns))
			}
		}
	}()
	return func() { close(done) }
}
