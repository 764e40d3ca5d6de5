package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/config"
	"github.com/itfy/evoting/internal/infrastructure/cache"
	"github.com/itfy/evoting/internal/infrastructure/database"
	"github.com/itfy/evoting/internal/infrastructure/gateway/paystack"
	httpServer "github.com/itfy/evoting/internal/infrastructure/http"
	"github.com/itfy/evoting/internal/infrastructure/messaging"
	"github.com/itfy/evoting/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, logger)

	// Initialize redis-backed cache and publisher
	redisClient, err := cache.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	cacheRepo := cache.NewCacheRepository(redisClient, logger)
	publisher := messaging.NewPublisher(redisClient, logger)

	// Initialize payment gateway client
	gatewayClient := paystack.NewClient(
		cfg.Service.Paystack.BaseURL,
		cfg.Service.Paystack.SecretKey,
		cfg.Service.Paystack.CallbackURL,
		logger,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize HTTP server
	httpSrv := httpServer.NewServer(cfg, logger, repos, cacheRepo, publisher, gatewayClient)

	// Start expiry reaper
	reaper := worker.NewReaper(httpSrv.Ledger(), cfg.Service.ReapInterval, logger)
	go reaper.Run(ctx)

	// Start HTTP server
	go func() {
		if err := httpSrv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	cancel()

	if err := httpSrv.Shutdown(context.Background()); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	logger.Info("Server shut down successfully")
}
