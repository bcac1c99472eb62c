package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"github.com/Gajendra1092/VideoTube-sub001/internal/repositories"
	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"go.uber.org/zap"
)

// A record becomes completed once this much of the video has been watched
const completionThreshold = 90.0

// WatchHistoryService tracks per-user, per-video watch progress and serves
// the derived statistics.
type WatchHistoryService struct {
	history repositories.WatchHistoryRepository
	videos  repositories.VideoRepository
	users   repositories.UserRepository
}

// NewWatchHistoryService creates a new WatchHistoryService
func NewWatchHistoryService(
	history repositories.WatchHistoryRepository,
	videos repositories.VideoRepository,
	users repositories.UserRepository,
) *WatchHistoryService {
	return &WatchHistoryService{history: history, videos: videos, users: users}
}

// RecordProgress applies one client progress report to the (user, video)
// record, creating it on first sight. Stored progress is the max of all
// reported values, so duplicated or out-of-order reports cannot regress it.
// Returns (nil, nil) when the user has paused history tracking.
func (s *WatchHistoryService) RecordProgress(ctx context.Context, userID uint, videoID string, progress float64, device *models.DeviceInfo) (*models.WatchHistory, error) {
	if progress < 0 {
		return nil, fmt.Errorf("%w: progress must be non-negative", ErrValidation)
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.WatchHistoryPaused {
		return nil, nil
	}

	now := time.Now()
	record, err := s.history.GetByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		record = &models.WatchHistory{
			UserID:    userID,
			VideoID:   videoID,
			CreatedAt: now,
		}
	}

	if progress > record.WatchProgress {
		record.WatchProgress = progress
	}
	record.WatchSessions++
	record.LastWatchedAt = now
	record.DeviceInfo.Merge(device)

	// Percentage and completion are only recomputed when the video's
	// duration is known; otherwise the previous values stand.
	video, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if video != nil && video.Duration > 0 {
		pct := record.WatchProgress * 100 / video.Duration
		if pct > 100 {
			pct = 100
		}
		record.WatchPercentage = pct
		if pct >= completionThreshold && !record.IsCompleted {
			record.IsCompleted = true
			completedAt := now
			record.CompletedAt = &completedAt
		}
	}

	if err := s.history.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// HistoryPage is the pagination contract for watch-history listings
type HistoryPage struct {
	Items       []models.WatchHistoryWithVideo `json:"items"`
	Page        int                            `json:"page"`
	TotalPages  int                            `json:"total_pages"`
	TotalItems  int64                          `json:"total_items"`
	HasNextPage bool                           `json:"has_next_page"`
}

// GetUserHistory returns one page of the user's history, most recently
// watched first, each record joined with its video's metadata
func (s *WatchHistoryService) GetUserHistory(ctx context.Context, userID uint, page, pageSize int) (*HistoryPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	skip := int64(page-1) * int64(pageSize)

	records, total, err := s.history.ListByUser(ctx, userID, skip, int64(pageSize))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.WatchHistoryWithVideo{}
	}

	meta := buildPageMeta(page, pageSize, total)
	return &HistoryPage{
		Items:       records,
		Page:        meta.Page,
		TotalPages:  meta.TotalPages,
		TotalItems:  meta.TotalItems,
		HasNextPage: meta.HasNextPage,
	}, nil
}

// WatchStats is the per-user summary exposed to clients
type WatchStats struct {
	TotalVideos            int64      `json:"total_videos"`
	TotalWatchTime         string     `json:"total_watch_time"` // "{hours}h {minutes}m"
	TotalWatchSeconds      float64    `json:"total_watch_seconds"`
	CompletedVideos        int64      `json:"completed_videos"`
	AverageWatchPercentage float64    `json:"average_watch_percentage"`
	TotalSessions          int64      `json:"total_sessions"`
	FirstWatchedAt         *time.Time `json:"first_watched_at,omitempty"`
	LastWatchedAt          *time.Time `json:"last_watched_at,omitempty"`
}

// GetUserStats aggregates the user's entire history. A user with no records
// gets zeroed stats, not an error.
func (s *WatchHistoryService) GetUserStats(ctx context.Context, userID uint) (*WatchStats, error) {
	agg, err := s.history.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return &WatchStats{TotalWatchTime: formatWatchTime(0)}, nil
	}

	stats := &WatchStats{
		TotalVideos:            agg.TotalVideos,
		TotalWatchTime:         formatWatchTime(agg.TotalWatchSeconds),
		TotalWatchSeconds:      agg.TotalWatchSeconds,
		CompletedVideos:        agg.CompletedVideos,
		AverageWatchPercentage: agg.AveragePercentage,
		TotalSessions:          agg.TotalSessions,
	}
	if !agg.FirstWatchedAt.IsZero() {
		first := agg.FirstWatchedAt
		stats.FirstWatchedAt = &first
	}
	if !agg.LastWatchedAt.IsZero() {
		last := agg.LastWatchedAt
		stats.LastWatchedAt = &last
	}
	return stats, nil
}

// ClearHistory removes the user's entire watch history
func (s *WatchHistoryService) ClearHistory(ctx context.Context, userID uint) error {
	return s.history.DeleteAllForUser(ctx, userID)
}

// RemoveVideo removes one video from the user's watch history
func (s *WatchHistoryService) RemoveVideo(ctx context.Context, userID uint, videoID string) error {
	return s.history.DeleteByUserAndVideo(ctx, userID, videoID)
}

// SetPaused flips the user's tracking preference. While paused, progress
// reports are dropped without touching existing records.
func (s *WatchHistoryService) SetPaused(ctx context.Context, userID uint, paused bool) error {
	if err := s.users.SetWatchHistoryPaused(userID, paused); err != nil {
		return err
	}
	logger.Log.Info("watch history tracking preference changed",
		zap.Uint("user", userID), zap.Bool("paused", paused))
	return nil
}

// formatWatchTime renders seconds as "{hours}h {minutes}m"
func formatWatchTime(seconds float64) string {
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
