package handlers

import (
	"errors"
	"net/http"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository      repositories.LikeRepository
	notificationService *services.NotificationService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, notificationService *services.NotificationService) *LikeHandler {
	return &LikeHandler{likeRepository: likeRepo, notificationService: notificationService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/videos/:id/toggle", h.ToggleVideoLike)
	g.POST("/comments/:id/toggle", h.ToggleCommentLike)
	g.POST("/tweets/:id/toggle", h.ToggleTweetLike)
}

// ToggleVideoLike likes a video, or removes the like if one exists
func (h *LikeHandler) ToggleVideoLike(c echo.Context) error {
	return h.toggle(c, models.LikeTargetVideo)
}

// ToggleCommentLike likes a comment, or removes the like if one exists.
// A fresh like notifies the comment's author.
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	return h.toggle(c, models.LikeTargetComment)
}

// ToggleTweetLike likes a tweet, or removes the like if one exists.
// A fresh like notifies the tweet's author.
func (h *LikeHandler) ToggleTweetLike(c echo.Context) error {
	return h.toggle(c, models.LikeTargetTweet)
}

func (h *LikeHandler) toggle(c echo.Context, targetType models.LikeTargetType) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	targetID := c.Param("id")

	liked, err := h.likeRepository.HasUserLiked(userID, targetID, targetType)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		if err := h.likeRepository.DeleteLike(userID, targetID, targetType); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		like := &models.Like{UserID: userID, TargetID: targetID, TargetType: targetType}
		if err := h.likeRepository.CreateLike(like); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.notifyLiked(c, targetID, targetType, userID)
	}

	count, err := h.likeRepository.GetLikesCount(targetID, targetType)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": !liked, "likes": count})
}

// notifyLiked fires the like notification for target types that have one.
// Failures are logged, never surfaced.
func (h *LikeHandler) notifyLiked(c echo.Context, targetID string, targetType models.LikeTargetType, likerID uint) {
	ctx := c.Request().Context()

	var err error
	switch targetType {
	case models.LikeTargetComment:
		_, err = h.notificationService.NotifyCommentLike(ctx, targetID, likerID)
	case models.LikeTargetTweet:
		_, err = h.notificationService.NotifyTweetLike(ctx, targetID, likerID)
	default:
		return
	}
	if err != nil {
		logger.Log.Warn("like notification failed",
			zap.String("target", targetID), zap.String("type", string(targetType)), zap.Error(err))
	}
}
