package router

import (
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/Gajendra1092/VideoTube-sub001/internal/handlers"
	"github.com/Gajendra1092/VideoTube-sub001/internal/middleware"
	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/uploader"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Deps collects the external dependencies the routes are wired with.
// FirebaseAuth, Badge and Uploader may be nil; the features backed by them
// degrade gracefully.
type Deps struct {
	Postgres      *gorm.DB
	MongoDatabase *mongo.Database
	FirebaseAuth  *auth.Client
	Badge         services.UnreadBadgeCache
	Uploader      *uploader.Uploader
	SweepInterval time.Duration
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the notification sweeper so main can manage its lifecycle.
func SetupRoutes(e *echo.Echo, deps Deps) (*services.NotificationSweeper, error) {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Subscription{},
	)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("PostgreSQL auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	videoRepo := repositories.NewMongoVideoRepository(deps.MongoDatabase)
	commentRepo := repositories.NewMongoCommentRepository(deps.MongoDatabase)
	tweetRepo := repositories.NewMongoTweetRepository(deps.MongoDatabase)
	playlistRepo := repositories.NewMongoPlaylistRepository(deps.MongoDatabase)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(deps.Postgres)
	notificationRepo := repositories.NewMongoNotificationRepository(deps.MongoDatabase)
	watchHistoryRepo := repositories.NewMongoWatchHistoryRepository(deps.MongoDatabase)

	// --- Initialize services ---
	notificationService := services.NewNotificationService(
		notificationRepo, userRepo, videoRepo, commentRepo, tweetRepo, deps.Badge)
	watchHistoryService := services.NewWatchHistoryService(watchHistoryRepo, videoRepo, userRepo)
	sweeper := services.NewNotificationSweeper(notificationRepo, deps.SweepInterval)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo, subscriptionRepo)
	userHandler.RegisterProfileRoutes(api)

	videoHandler := handlers.NewVideoHandler(videoRepo, commentRepo, likeRepo, notificationService, deps.Uploader)
	videoHandler.RegisterVideoRoutes(api.Group("/videos"))

	commentHandler := handlers.NewCommentHandler(commentRepo, videoRepo, likeRepo, notificationService)
	commentHandler.RegisterCommentRoutes(api)

	tweetHandler := handlers.NewTweetHandler(tweetRepo, likeRepo)
	tweetHandler.RegisterTweetRoutes(api.Group("/tweets"))

	likeHandler := handlers.NewLikeHandler(likeRepo, notificationService)
	likeHandler.RegisterLikeRoutes(api.Group("/likes"))

	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, userRepo, notificationService)
	subscriptionHandler.RegisterSubscriptionRoutes(api.Group("/subscriptions"))

	playlistHandler := handlers.NewPlaylistHandler(playlistRepo, videoRepo, notificationService)
	playlistHandler.RegisterPlaylistRoutes(api.Group("/playlists"))

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api.Group("/notifications"))

	watchHistoryHandler := handlers.NewWatchHistoryHandler(watchHistoryService)
	watchHistoryHandler.RegisterWatchHistoryRoutes(api.Group("/watch-history"))

	logger.Log.Info("all routes configured")
	return sweeper, nil
}
