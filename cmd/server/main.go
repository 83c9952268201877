package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shard-legends/upgrade-planner-service/internal/adapters"
	"github.com/shard-legends/upgrade-planner-service/internal/config"
	"github.com/shard-legends/upgrade-planner-service/internal/database"
	"github.com/shard-legends/upgrade-planner-service/internal/handlers"
	customMiddleware "github.com/shard-legends/upgrade-planner-service/internal/middleware"
	"github.com/shard-legends/upgrade-planner-service/internal/planner"
	"github.com/shard-legends/upgrade-planner-service/internal/service"
	"github.com/shard-legends/upgrade-planner-service/internal/storage"
	"github.com/shard-legends/upgrade-planner-service/pkg/jwt"
	"github.com/shard-legends/upgrade-planner-service/pkg/logger"
	"github.com/shard-legends/upgrade-planner-service/pkg/metrics"
	"go.uber.org/zap"
)

// Set at build time via -ldflags
var (
	version   = "dev"
	buildTime = ""
)

func main() {
	// Optional .env for local runs; real environment wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set service start time for metrics
	startTime := time.Now()
	go func() {
		for {
			metrics.ServiceUptime.Set(time.Since(startTime).Seconds())
			time.Sleep(cfg.Metrics.UpdateInterval)
		}
	}()

	if buildTime == "" {
		buildTime = startTime.Format(time.RFC3339)
	}
	metrics.ServiceInfo.WithLabelValues(version, buildTime).Set(1)

	// Initialize Redis (auth database with revoked tokens)
	redis, err := database.NewRedisClient(&cfg.Redis, cfg.Timeouts.RedisHealth)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()

	// Initialize JWT validator
	jwtValidator := jwt.NewValidator(cfg.Auth.PublicKeyURL, redis, cfg.Timeouts.JWTValidatorClient)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.JWTValidatorClient)
	defer cancel()

	if err := jwtValidator.Initialize(ctx); err != nil {
		logger.Fatal("Failed to initialize JWT validator", zap.Error(err))
	}

	// Refresh JWT public key periodically
	go func() {
		ticker := time.NewTicker(cfg.Auth.RefreshInterval)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.JWTValidatorClient)
			if err := jwtValidator.RefreshPublicKey(ctx); err != nil {
				logger.Error("Failed to refresh JWT public key", zap.Error(err))
			}
			cancel()
		}
	}()

	// Database is only needed when reference tables live in PostgreSQL
	var dbHealth handlers.HealthChecker
	repositoryDeps := &storage.RepositoryDependencies{
		MetricsCollector: adapters.NewMetricsAdapter(),
	}
	if cfg.Planner.TablesSource == storage.TableSourceDatabase {
		db, err := database.NewDB(&cfg.Database, cfg.Timeouts.DatabaseHealth)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		repositoryDeps.DB = adapters.NewDatabaseAdapter(db)
		dbHealth = db
	}

	// Load reference tables once; they are immutable afterwards
	tableSource, err := storage.NewTableSource(cfg.Planner.TablesSource, cfg.Planner.TablesFile, repositoryDeps)
	if err != nil {
		logger.Fatal("Failed to create table source", zap.Error(err))
	}

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	tables, err := tableSource.LoadTables(loadCtx)
	loadCancel()
	if err != nil {
		logger.Fatal("Failed to load reference tables", zap.Error(err))
	}

	logger.Info("Reference tables loaded",
		zap.String("source", cfg.Planner.TablesSource),
		zap.Int("progression_levels", len(tables.Progression)),
		zap.Int("account_levels", len(tables.Experience)),
	)

	opts := planner.Options{
		Strategy:        cfg.Planner.Strategy,
		EnforceSequence: cfg.Planner.SequentialUpgrades,
	}
	if _, err := planner.NewOptimizer(opts); err != nil {
		logger.Fatal("Invalid planner configuration", zap.Error(err))
	}

	// Initialize player API client
	playerClient := service.NewHTTPPlayerClient(service.PlayerClientConfig{
		BaseURL:   cfg.PlayerAPI.BaseURL,
		Token:     cfg.PlayerAPI.Token,
		Timeout:   cfg.PlayerAPI.Timeout,
		RateLimit: cfg.PlayerAPI.RateLimit,
		Burst:     cfg.PlayerAPI.Burst,
	}, logger.Get())

	// Initialize service layer
	serviceLayer := service.NewService(&service.ServiceDependencies{
		Tables:  tables,
		Players: playerClient,
		Options: opts,
		Logger:  logger.Get(),
	})

	// Initialize handlers
	allHandlers := handlers.NewHandlers(&handlers.HandlerDependencies{
		Service: serviceLayer,
		DB:      dbHealth,
		Redis:   redis,
		Logger:  logger.Get(),
	})

	publicRouter := newPublicRouter(allHandlers, customMiddleware.Auth(jwtValidator), cfg.Timeouts.HTTPMiddleware)
	internalRouter := newInternalRouter(allHandlers, cfg.Timeouts.HTTPMiddleware)

	// Create public HTTP server
	publicServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      publicRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Create internal HTTP server
	internalServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.InternalPort),
		Handler:      internalRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start public server in a goroutine
	go func() {
		logger.Info("Starting Upgrade Planner Service public server",
			zap.String("host", cfg.Server.Host),
			zap.String("port", cfg.Server.Port),
		)

		if err := publicServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start public server", zap.Error(err))
		}
	}()

	// Start internal server in a goroutine
	go func() {
		logger.Info("Starting Upgrade Planner Service internal server",
			zap.String("host", cfg.Server.Host),
			zap.String("port", cfg.Server.InternalPort),
		)

		if err := internalServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start internal server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.GracefulShutdown)
	defer shutdownCancel()

	// Shutdown both servers
	shutdownErr := make(chan error, 2)

	go func() {
		if err := publicServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr <- fmt.Errorf("public server shutdown error: %w", err)
		} else {
			shutdownErr <- nil
		}
	}()

	go func() {
		if err := internalServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr <- fmt.Errorf("internal server shutdown error: %w", err)
		} else {
			shutdownErr <- nil
		}
	}()

	for i := 0; i < 2; i++ {
		if err := <-shutdownErr; err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
	}

	logger.Info("Servers exited")
}
