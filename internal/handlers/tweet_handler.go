package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TweetHandler handles HTTP requests related to community posts
type TweetHandler struct {
	tweetRepository repositories.TweetRepository
	likeRepository  repositories.LikeRepository
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(tweetRepo repositories.TweetRepository, likeRepo repositories.LikeRepository) *TweetHandler {
	return &TweetHandler{tweetRepository: tweetRepo, likeRepository: likeRepo}
}

// RegisterTweetRoutes registers tweet-related routes
func (h *TweetHandler) RegisterTweetRoutes(g *echo.Group) {
	g.POST("", h.CreateTweet)
	g.GET("/:id", h.GetTweet)
	g.GET("/channel/:channelId", h.GetChannelTweets)
	g.PATCH("/:id", h.UpdateTweet)
	g.DELETE("/:id", h.DeleteTweet)
}

// CreateTweet posts a new tweet on the authenticated user's channel
func (h *TweetHandler) CreateTweet(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateTweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tweet := &models.Tweet{OwnerID: userID, Content: req.Content}
	if err := h.tweetRepository.CreateTweet(c.Request().Context(), tweet); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, tweet)
}

// GetTweet returns a single tweet with its like count
func (h *TweetHandler) GetTweet(c echo.Context) error {
	id := c.Param("id")

	tweet, err := h.tweetRepository.GetTweetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tweet not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	likes, _ := h.likeRepository.GetLikesCount(id, models.LikeTargetTweet)
	return c.JSON(http.StatusOK, echo.Map{"tweet": tweet, "likes": likes})
}

// GetChannelTweets returns a channel's tweets, newest first
func (h *TweetHandler) GetChannelTweets(c echo.Context) error {
	channelID, err := strconv.ParseUint(c.Param("channelId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid channel ID")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	skip := int64(page-1) * int64(limit)
	tweets, err := h.tweetRepository.GetTweetsByOwner(c.Request().Context(), uint(channelID), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	return c.JSON(http.StatusOK, echo.Map{"tweets": tweets, "page": page})
}

// UpdateTweet edits a tweet's content. Only the author may edit it.
func (h *TweetHandler) UpdateTweet(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")

	var req models.UpdateTweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tweet, err := h.tweetRepository.GetTweetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tweet not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if tweet.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this tweet")
	}

	if err := h.tweetRepository.UpdateTweet(c.Request().Context(), id, req.Content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	tweet.Content = req.Content
	return c.JSON(http.StatusOK, tweet)
}

// DeleteTweet removes a tweet and its likes. Only the author may delete it.
func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")
	ctx := c.Request().Context()

	tweet, err := h.tweetRepository.GetTweetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tweet not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if tweet.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this tweet")
	}

	if err := h.tweetRepository.DeleteTweet(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.likeRepository.DeleteLikesForTarget(id, models.LikeTargetTweet); err != nil {
		logger.Log.Warn("orphaned likes not cleaned up", zap.String("tweet", id), zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Tweet deleted"})
}
