package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SubscriptionHandler handles HTTP requests related to channel subscriptions
type SubscriptionHandler struct {
	subscriptionRepository repositories.SubscriptionRepository
	userRepository         repositories.UserRepository
	notificationService    *services.NotificationService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	notificationService *services.NotificationService,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionRepository: subRepo,
		userRepository:         userRepo,
		notificationService:    notificationService,
	}
}

// RegisterSubscriptionRoutes registers subscription-related routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.POST("/:channelId/toggle", h.ToggleSubscription)
	g.GET("/channels", h.GetSubscribedChannels)
	g.GET("/:channelId/subscribers", h.GetSubscribers)
}

// ToggleSubscription subscribes the authenticated user to a channel, or
// unsubscribes if already subscribed. A fresh subscription notifies the
// channel owner.
func (h *SubscriptionHandler) ToggleSubscription(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	channelID64, err := strconv.ParseUint(c.Param("channelId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid channel ID")
	}
	channelID := uint(channelID64)

	if channelID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot subscribe to your own channel")
	}
	if _, err := h.userRepository.GetUserByID(channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Channel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	subscribed, err := h.subscriptionRepository.IsSubscribed(userID, channelID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if subscribed {
		if err := h.subscriptionRepository.DeleteSubscription(userID, channelID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		sub := &models.Subscription{SubscriberID: userID, ChannelID: channelID}
		if err := h.subscriptionRepository.CreateSubscription(sub); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if _, err := h.notificationService.NotifyNewSubscription(c.Request().Context(), channelID, userID); err != nil {
			logger.Log.Warn("subscription notification failed",
				zap.Uint("channel", channelID), zap.Uint("subscriber", userID), zap.Error(err))
		}
	}

	count, err := h.subscriptionRepository.GetSubscriberCount(channelID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"subscribed": !subscribed, "subscriber_count": count})
}

// GetSubscribedChannels returns the channels the authenticated user follows
func (h *SubscriptionHandler) GetSubscribedChannels(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	channels, err := h.subscriptionRepository.GetSubscribedChannels(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, 0, len(channels))
	for i := range channels {
		results = append(results, channels[i].ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"channels": results})
}

// GetSubscribers returns a channel's subscribers
func (h *SubscriptionHandler) GetSubscribers(c echo.Context) error {
	channelID, err := strconv.ParseUint(c.Param("channelId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid channel ID")
	}

	subscribers, err := h.subscriptionRepository.GetSubscribers(uint(channelID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, 0, len(subscribers))
	for i := range subscribers {
		results = append(results, subscribers[i].ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"subscribers": results})
}
