package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/router"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/cache"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/config"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/firebase"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/uploader"
	"github.com/Gajendra1092/VideoTube-sub001/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const mongoDatabaseName = "videotube"

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Initialize(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		logger.Log.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	ctx := context.Background()
	if err := db.EnsureIndexes(ctx, mongoDatabaseName); err != nil {
		logger.Log.Fatal("failed to ensure MongoDB indexes", zap.Error(err))
	}

	// Firebase login is optional; without credentials only local auth works
	deps := router.Deps{
		Postgres:      db.Postgres,
		MongoDatabase: db.Mongo.Database(mongoDatabaseName),
		SweepInterval: cfg.SweepInterval,
	}
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Log.Fatal("failed to initialize Firebase", zap.Error(err))
		}
		deps.FirebaseAuth = firebaseApp.AuthClient
	} else {
		logger.Log.Warn("Firebase credentials not configured, Firebase login disabled")
	}

	// Redis badge cache is optional; without it unread counts hit MongoDB
	if cfg.RedisHost != "" {
		badge, err := cache.NewBadgeCache(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.BadgeCacheTTL)
		if err != nil {
			logger.Log.Warn("Redis unavailable, unread counts will be uncached", zap.Error(err))
		} else {
			defer badge.Close()
			deps.Badge = badge
		}
	}

	// Cloudinary is optional; without it video uploads are disabled
	if cfg.CloudinaryURL != "" {
		up, err := uploader.New(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			logger.Log.Fatal("failed to initialize Cloudinary", zap.Error(err))
		}
		deps.Uploader = up
	} else {
		logger.Log.Warn("Cloudinary not configured, video uploads disabled")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware, routes and dependencies
	router.SetupMiddleware(e)
	sweeper, err := router.SetupRoutes(e, deps)
	if err != nil {
		logger.Log.Fatal("failed to set up routes", zap.Error(err))
	}

	sweeper.Start()
	defer sweeper.Stop()

	// Start server; shut down cleanly on SIGINT/SIGTERM
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			logger.Log.Info("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
	}
}
