package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/activity-service/internal/cache"
	"github.com/SAP-F-2025/activity-service/internal/config"
	"github.com/SAP-F-2025/activity-service/internal/handlers"
	"github.com/SAP-F-2025/activity-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/activity-service/internal/services"
	"github.com/SAP-F-2025/activity-service/internal/utils"
	"github.com/SAP-F-2025/activity-service/internal/validator"
	"github.com/SAP-F-2025/activity-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := utils.NewLogger(cfg.Environment, cfg.SlogLevel())
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := pkg.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis (if configured)
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Failed to initialize Redis, activity cache disabled", "error", err)
	}

	// Initialize event publisher
	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		log.Fatalf("Failed to create event publisher: %v", err)
	}

	repo := postgres.NewPostgreSQLRepository(db)
	validator := validator.New()

	// Initialize services
	source := services.NewActivitySource(repo.Activity(), validator, slogLogger)
	loader := cache.NewCachedLoader(
		source,
		cache.NewRedisCache(redisClient, cache.ActivityPrefix, slogLogger),
		cfg.ActivityCacheTTL,
		slogLogger,
	)
	recorder := services.NewAttemptRecorder(repo.Attempt(), publisher, validator, slogLogger)
	sessionService := services.NewSessionService(loader, recorder, publisher, services.SessionConfig{
		Engine:      cfg.Engine,
		IdleTimeout: cfg.SessionIdleTimeout,
		MaxSessions: cfg.MaxSessions,
	}, slogLogger)
	reportService := services.NewReportService(slogLogger)

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	go sessionService.RunReaper(reaperCtx, cfg.SessionReapInterval)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlers.NewHandlerManager(sessionService, reportService, repo, validator, logger).SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Close sessions and wait for pending attempt saves
	stopReaper()
	if err := sessionService.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown sessions: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Printf("Failed to close event publisher: %v", err)
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
