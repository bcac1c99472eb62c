package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/internal/services"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository   repositories.CommentRepository
	videoRepository     repositories.VideoRepository
	likeRepository      repositories.LikeRepository
	notificationService *services.NotificationService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	videoRepo repositories.VideoRepository,
	likeRepo repositories.LikeRepository,
	notificationService *services.NotificationService,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:   commentRepo,
		videoRepository:     videoRepo,
		likeRepository:      likeRepo,
		notificationService: notificationService,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/videos/:videoId/comments", h.GetVideoComments)
	g.POST("/videos/:videoId/comments", h.CreateComment)
	g.PATCH("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// GetVideoComments returns one page of a video's top-level comments
func (h *CommentHandler) GetVideoComments(c echo.Context) error {
	videoID := c.Param("videoId")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	skip := int64(page-1) * int64(limit)
	comments, total, err := h.commentRepository.GetCommentsByVideoID(c.Request().Context(), videoID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"comments": comments,
		"page":     page,
		"total":    total,
	})
}

// CreateComment adds a comment (or a reply, when parent_id is set) to a video
// and notifies the video owner or the parent comment's author.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	videoID := c.Param("videoId")
	ctx := c.Request().Context()

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.videoRepository.GetVideoByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Video not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.ParentID != nil {
		parent, err := h.commentRepository.GetCommentByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if parent.VideoID != videoID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to a different video")
		}
	}

	comment := &models.Comment{
		VideoID:  videoID,
		ParentID: req.ParentID,
		OwnerID:  userID,
		Content:  req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Best-effort: a failed notification never fails the comment
	var notifyErr error
	if req.ParentID != nil {
		_, notifyErr = h.notificationService.NotifyCommentReply(ctx, comment.ID.Hex())
	} else {
		_, notifyErr = h.notificationService.NotifyVideoComment(ctx, comment.ID.Hex())
	}
	if notifyErr != nil {
		logger.Log.Warn("comment notification failed",
			zap.String("comment", comment.ID.Hex()), zap.Error(notifyErr))
	}

	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment's content. Only the author may edit it.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this comment")
	}

	if err := h.commentRepository.UpdateComment(c.Request().Context(), id, req.Content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	comment.Content = req.Content
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment and its likes. Only the author may delete it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")
	ctx := c.Request().Context()

	comment, err := h.commentRepository.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this comment")
	}

	if err := h.commentRepository.DeleteComment(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.likeRepository.DeleteLikesForTarget(id, models.LikeTargetComment); err != nil {
		logger.Log.Warn("orphaned likes not cleaned up", zap.String("comment", id), zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}
