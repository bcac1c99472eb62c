package handlers

import (
	"errors"
	"net/http"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PlaylistHandler handles HTTP requests related to playlists
type PlaylistHandler struct {
	playlistRepository  repositories.PlaylistRepository
	videoRepository     repositories.VideoRepository
	notificationService *services.NotificationService
}

// NewPlaylistHandler creates a new PlaylistHandler
func NewPlaylistHandler(
	playlistRepo repositories.PlaylistRepository,
	videoRepo repositories.VideoRepository,
	notificationService *services.NotificationService,
) *PlaylistHandler {
	return &PlaylistHandler{
		playlistRepository:  playlistRepo,
		videoRepository:     videoRepo,
		notificationService: notificationService,
	}
}

// RegisterPlaylistRoutes registers playlist-related routes
func (h *PlaylistHandler) RegisterPlaylistRoutes(g *echo.Group) {
	g.POST("", h.CreatePlaylist)
	g.GET("", h.GetMyPlaylists)
	g.GET("/:id", h.GetPlaylist)
	g.PATCH("/:id", h.UpdatePlaylist)
	g.DELETE("/:id", h.DeletePlaylist)
	g.POST("/:id/videos/:videoId", h.AddVideo)
	g.DELETE("/:id/videos/:videoId", h.RemoveVideo)
}

// CreatePlaylist creates a new, empty playlist
func (h *PlaylistHandler) CreatePlaylist(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	playlist := &models.Playlist{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.playlistRepository.CreatePlaylist(c.Request().Context(), playlist); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, playlist)
}

// GetMyPlaylists returns all playlists owned by the authenticated user
func (h *PlaylistHandler) GetMyPlaylists(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	playlists, err := h.playlistRepository.GetPlaylistsByOwner(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return c.JSON(http.StatusOK, echo.Map{"playlists": playlists})
}

// GetPlaylist returns a single playlist
func (h *PlaylistHandler) GetPlaylist(c echo.Context) error {
	playlist, err := h.playlistRepository.GetPlaylistByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Playlist not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, playlist)
}

// UpdatePlaylist renames a playlist or changes its description.
// Only the owner may update it.
func (h *PlaylistHandler) UpdatePlaylist(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")

	var req models.UpdatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	playlist, err := h.getOwnedPlaylist(c, id, userID)
	if err != nil {
		return err
	}

	if err := h.playlistRepository.UpdatePlaylist(c.Request().Context(), id, req.Name, req.Description); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if req.Name != "" {
		playlist.Name = req.Name
	}
	if req.Description != "" {
		playlist.Description = req.Description
	}
	return c.JSON(http.StatusOK, playlist)
}

// DeletePlaylist removes a playlist and sends the owner a deletion notice.
// Only the owner may delete it.
func (h *PlaylistHandler) DeletePlaylist(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")
	ctx := c.Request().Context()

	playlist, err := h.getOwnedPlaylist(c, id, userID)
	if err != nil {
		return err
	}

	if err := h.playlistRepository.DeletePlaylist(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.notificationService.NotifyContentDeletion(ctx, userID, models.ContentPlaylist, playlist.Name); err != nil {
		logger.Log.Warn("deletion notification failed", zap.String("playlist", id), zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Playlist deleted"})
}

// AddVideo adds a video to a playlist. Only the owner may modify it.
func (h *PlaylistHandler) AddVideo(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")
	videoID := c.Param("videoId")
	ctx := c.Request().Context()

	if _, err := h.getOwnedPlaylist(c, id, userID); err != nil {
		return err
	}
	if _, err := h.videoRepository.GetVideoByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Video not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.playlistRepository.AddVideo(ctx, id, videoID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Video added to playlist"})
}

// RemoveVideo removes a video from a playlist. Only the owner may modify it.
func (h *PlaylistHandler) RemoveVideo(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")
	videoID := c.Param("videoId")

	if _, err := h.getOwnedPlaylist(c, id, userID); err != nil {
		return err
	}

	if err := h.playlistRepository.RemoveVideo(c.Request().Context(), id, videoID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Video removed from playlist"})
}

// getOwnedPlaylist loads a playlist and checks the caller owns it
func (h *PlaylistHandler) getOwnedPlaylist(c echo.Context, id string, userID uint) (*models.Playlist, error) {
	playlist, err := h.playlistRepository.GetPlaylistByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Playlist not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if playlist.OwnerID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not own this playlist")
	}
	return playlist, nil
}
