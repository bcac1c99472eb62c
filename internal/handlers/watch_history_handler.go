package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// WatchHistoryHandler handles HTTP requests related to watch history
type WatchHistoryHandler struct {
	watchHistoryService *services.WatchHistoryService
}

// NewWatchHistoryHandler creates a new WatchHistoryHandler
func NewWatchHistoryHandler(watchHistoryService *services.WatchHistoryService) *WatchHistoryHandler {
	return &WatchHistoryHandler{watchHistoryService: watchHistoryService}
}

// RegisterWatchHistoryRoutes registers watch-history routes
func (h *WatchHistoryHandler) RegisterWatchHistoryRoutes(g *echo.Group) {
	g.POST("/progress", h.RecordProgress)
	g.GET("", h.GetHistory)
	g.GET("/stats", h.GetStats)
	g.DELETE("", h.ClearHistory)
	g.DELETE("/videos/:videoId", h.RemoveVideo)
	g.PUT("/pause", h.PauseTracking)
	g.PUT("/resume", h.ResumeTracking)
}

// RecordProgress applies one progress report from the player
func (h *WatchHistoryHandler) RecordProgress(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RecordProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.watchHistoryService.RecordProgress(c.Request().Context(), userID, req.VideoID, req.Progress, req.Device)
	if err != nil {
		if isValidationError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if record == nil {
		// Tracking is paused; nothing was recorded
		return c.JSON(http.StatusOK, echo.Map{"recorded": false, "paused": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"recorded": true, "history": record})
}

// GetHistory returns one page of the user's watch history, newest first
func (h *WatchHistoryHandler) GetHistory(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.watchHistoryService.GetUserHistory(c.Request().Context(), userID, page, pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// GetStats returns the user's aggregate watch statistics
func (h *WatchHistoryHandler) GetStats(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stats, err := h.watchHistoryService.GetUserStats(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

// ClearHistory wipes the user's entire watch history
func (h *WatchHistoryHandler) ClearHistory(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.watchHistoryService.ClearHistory(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Watch history cleared"})
}

// RemoveVideo removes one video from the user's watch history
func (h *WatchHistoryHandler) RemoveVideo(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	err := h.watchHistoryService.RemoveVideo(c.Request().Context(), userID, c.Param("videoId"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No history for this video")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Video removed from history"})
}

// PauseTracking stops recording new progress reports for the user
func (h *WatchHistoryHandler) PauseTracking(c echo.Context) error {
	return h.setPaused(c, true)
}

// ResumeTracking re-enables progress recording for the user
func (h *WatchHistoryHandler) ResumeTracking(c echo.Context) error {
	return h.setPaused(c, false)
}

func (h *WatchHistoryHandler) setPaused(c echo.Context, paused bool) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.watchHistoryService.SetPaused(c.Request().Context(), userID, paused); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"history_paused": paused})
}
