package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.PUT("/read", h.MarkRead)
	g.PUT("/read-all", h.MarkAllRead)
	g.DELETE("", h.DeleteNotifications)
	g.DELETE("/all", h.DeleteAllNotifications)
}

// GetNotifications returns one page of the authenticated user's notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread_only"))

	result, err := h.notificationService.GetUserNotifications(c.Request().Context(), userID, page, pageSize, unreadOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// GetUnreadCount returns the unread badge value for the authenticated user
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count := h.notificationService.GetUnreadCount(c.Request().Context(), userID)
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// notificationIDsRequest carries the ids for bulk read/delete operations
type notificationIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// MarkRead marks the given notifications as read for the authenticated user
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req notificationIDsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No notification ids provided")
	}

	affected, err := h.notificationService.MarkNotificationsRead(c.Request().Context(), req.IDs, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"marked_read": affected})
}

// MarkAllRead marks every unread notification of the authenticated user as read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	affected, err := h.notificationService.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"marked_read": affected})
}

// DeleteNotifications deletes the given notifications for the authenticated user
func (h *NotificationHandler) DeleteNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req notificationIDsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No notification ids provided")
	}

	deleted, err := h.notificationService.DeleteNotifications(c.Request().Context(), req.IDs, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

// DeleteAllNotifications clears the authenticated user's notification inbox
func (h *NotificationHandler) DeleteAllNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationService.DeleteAllForUser(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications deleted"})
}

// isValidationError reports whether err came from input validation inside a
// service call, as opposed to a store failure.
func isValidationError(err error) bool {
	return errors.Is(err, services.ErrValidation)
}
