package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/rugby-optimizer/internal/api"
	"github.com/jstittsworth/rugby-optimizer/internal/api/handlers"
	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/providers"
	"github.com/jstittsworth/rugby-optimizer/internal/services"
	"github.com/jstittsworth/rugby-optimizer/pkg/config"
	"github.com/jstittsworth/rugby-optimizer/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Open solve-history database
	db, err := database.NewConnection(cfg.DatabasePath, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Connect to Redis when configured; caching is optional
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	}
	cacheService := services.NewCacheService(redisClient)

	store := services.NewStore(db, cfg.SnapshotDir, logger)

	// Scheduled dataset refresh needs upstream credentials; without a token
	// the server serves the statically configured dataset only.
	var fetcher *services.FetcherService
	if cfg.SixNationsToken != "" {
		client := providers.NewSixNationsClient(providers.ClientConfig{
			BaseURL:   cfg.SixNationsBaseURL,
			Token:     cfg.SixNationsToken,
			AccessKey: cfg.SixNationsAccessKey,
			Timeout:   cfg.ProviderTimeout,
			RateLimit: cfg.ProviderRateLimit,
			CacheTTL:  cfg.CacheTTL,
		}, cacheService, logger)
		builder := services.NewDatasetBuilder(client, logger)
		fetcher = services.NewFetcherService(builder, store, cacheService, logger, services.BuildConfig{
			Gameweek:       cfg.Gameweek,
			Budget:         cfg.Budget,
			MissingHistory: models.Availability(cfg.MissingHistoryDefault),
		}, cfg.FetchInterval)
		if err := fetcher.Start(); err != nil {
			logrus.Errorf("Failed to start fetcher: %v", err)
		}
		defer fetcher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", handlers.NewHealthHandler().GetHealth)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, store, fetcher, cfg, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
