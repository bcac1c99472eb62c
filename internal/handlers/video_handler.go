package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/uploader"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VideoHandler handles HTTP requests related to videos
type VideoHandler struct {
	videoRepository     repositories.VideoRepository
	commentRepository   repositories.CommentRepository
	likeRepository      repositories.LikeRepository
	notificationService *services.NotificationService
	uploader            *uploader.Uploader
}

// NewVideoHandler creates a new VideoHandler. up may be nil, in which case
// uploads are disabled.
func NewVideoHandler(
	videoRepo repositories.VideoRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	notificationService *services.NotificationService,
	up *uploader.Uploader,
) *VideoHandler {
	return &VideoHandler{
		videoRepository:     videoRepo,
		commentRepository:   commentRepo,
		likeRepository:      likeRepo,
		notificationService: notificationService,
		uploader:            up,
	}
}

// RegisterVideoRoutes registers video-related routes
func (h *VideoHandler) RegisterVideoRoutes(g *echo.Group) {
	g.GET("", h.ListVideos)
	g.POST("", h.UploadVideo)
	g.GET("/:id", h.GetVideo)
	g.PATCH("/:id", h.UpdateVideo)
	g.PATCH("/:id/publish", h.TogglePublish)
	g.DELETE("/:id", h.DeleteVideo)
}

// ListVideos returns published videos, optionally filtered by a search query
func (h *VideoHandler) ListVideos(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 20
	}
	query := c.QueryParam("q")

	skip := int64(page-1) * int64(limit)
	videos, total, err := h.videoRepository.ListVideos(c.Request().Context(), query, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if videos == nil {
		videos = []models.Video{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"videos": videos,
		"page":   page,
		"total":  total,
	})
}

// UploadVideo uploads a video file plus thumbnail and creates its record.
// The upload-success notification fires once the record exists.
func (h *VideoHandler) UploadVideo(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if h.uploader == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "Media uploads are not configured")
	}

	var req models.CreateVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing video file")
	}
	videoURL, err := h.uploader.UploadFile(c.Request().Context(), videoFile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Video upload failed")
	}

	thumbnailURL := ""
	if thumbFile, err := c.FormFile("thumbnail"); err == nil {
		thumbnailURL, err = h.uploader.UploadFile(c.Request().Context(), thumbFile)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Thumbnail upload failed")
		}
	}

	video := &models.Video{
		OwnerID:      userID,
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     req.Duration,
		IsPublished:  true,
	}
	if err := h.videoRepository.CreateVideo(c.Request().Context(), video); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.notificationService.NotifyVideoUploadSuccess(c.Request().Context(), video.ID.Hex()); err != nil {
		// The upload succeeded; a failed notification is not the caller's problem
		logger.Log.Warn("upload-success notification failed",
			zap.String("video", video.ID.Hex()), zap.Error(err))
	}

	return c.JSON(http.StatusCreated, video)
}

// GetVideo returns a single video and counts a view
func (h *VideoHandler) GetVideo(c echo.Context) error {
	id := c.Param("id")

	video, err := h.videoRepository.GetVideoByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Video not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.videoRepository.IncrementViews(c.Request().Context(), id); err != nil {
		logger.Log.Warn("view increment failed", zap.String("video", id), zap.Error(err))
	}

	likes, _ := h.likeRepository.GetLikesCount(id, models.LikeTargetVideo)
	return c.JSON(http.StatusOK, echo.Map{"video": video, "likes": likes})
}

// UpdateVideo updates a video's metadata. Only the owner may update it.
func (h *VideoHandler) UpdateVideo(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")

	var req models.UpdateVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	video, err := h.videoRepository.GetVideoByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Video not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if video.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this video")
	}

	if req.Title != "" {
		video.Title = req.Title
	}
	if req.Description != "" {
		video.Description = req.Description
	}
	if err := h.videoRepository.UpdateVideo(c.Request().Context(), id, video); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, video)
}

// TogglePublish flips a video's publish state. Only the owner may toggle it.
func (h *VideoHandler) TogglePublish(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")

	video, err := h.videoRepository.GetVideoByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Video not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if video.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this video")
	}

	if err := h.videoRepository.SetPublished(c.Request().Context(), id, !video.IsPublished); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"is_published": !video.IsPublished})
}

// DeleteVideo deletes a video along with its comments and likes, then sends
// the owner a deletion notice. Only the owner may delete it.
func (h *VideoHandler) DeleteVideo(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")
	ctx := c.Request().Context()

	video, err := h.videoRepository.GetVideoByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Video not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if video.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this video")
	}

	if err := h.videoRepository.DeleteVideo(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.commentRepository.DeleteCommentsByVideoID(ctx, id); err != nil {
		logger.Log.Warn("orphaned comments not cleaned up", zap.String("video", id), zap.Error(err))
	}
	if err := h.likeRepository.DeleteLikesForTarget(id, models.LikeTargetVideo); err != nil {
		logger.Log.Warn("orphaned likes not cleaned up", zap.String("video", id), zap.Error(err))
	}

	if _, err := h.notificationService.NotifyContentDeletion(ctx, video.OwnerID, models.ContentVideo, video.Title); err != nil {
		logger.Log.Warn("deletion notification failed", zap.String("video", id), zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Video deleted"})
}
