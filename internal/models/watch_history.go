package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceInfo holds the last-seen client details for a watch-history record.
// Fields are merged opportunistically; a missing field never clears the
// previous value.
type DeviceInfo struct {
	UserAgent string `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	Platform  string `json:"platform,omitempty" bson:"platform,omitempty"`
	Browser   string `json:"browser,omitempty" bson:"browser,omitempty"`
}

// Merge overwrites fields from other, keeping prior values for missing ones
func (d *DeviceInfo) Merge(other *DeviceInfo) {
	if other == nil {
		return
	}
	if other.UserAgent != "" {
		d.UserAgent = other.UserAgent
	}
	if other.Platform != "" {
		d.Platform = other.Platform
	}
	if other.Browser != "" {
		d.Browser = other.Browser
	}
}

// WatchHistory tracks one user's progress through one video, stored in
// MongoDB with a unique compound index on (user_id, video_id).
type WatchHistory struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          uint               `json:"user_id" bson:"user_id"`
	VideoID         string             `json:"video_id" bson:"video_id"`
	WatchProgress   float64            `json:"watch_progress" bson:"watch_progress"`     // Seconds watched, never regresses
	WatchPercentage float64            `json:"watch_percentage" bson:"watch_percentage"` // Derived from video duration
	IsCompleted     bool               `json:"is_completed" bson:"is_completed"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	WatchSessions   int64              `json:"watch_sessions" bson:"watch_sessions"`
	LastWatchedAt   time.Time          `json:"last_watched_at" bson:"last_watched_at"`
	DeviceInfo      DeviceInfo         `json:"device_info,omitempty" bson:"device_info,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// WatchHistoryWithVideo is a history record joined with its video's metadata
type WatchHistoryWithVideo struct {
	WatchHistory `bson:",inline"`
	Video        *VideoCompact `json:"video,omitempty" bson:"video,omitempty"`
}

// WatchStatsAggregate is the raw result of the per-user stats aggregation
type WatchStatsAggregate struct {
	TotalVideos       int64     `bson:"total_videos"`
	TotalWatchSeconds float64   `bson:"total_watch_seconds"`
	CompletedVideos   int64     `bson:"completed_videos"`
	AveragePercentage float64   `bson:"average_percentage"`
	TotalSessions     int64     `bson:"total_sessions"`
	FirstWatchedAt    time.Time `bson:"first_watched_at"`
	LastWatchedAt     time.Time `bson:"last_watched_at"`
}

// RecordProgressRequest defines the request body for a progress report
type RecordProgressRequest struct {
	VideoID  string      `json:"video_id" validate:"required"`
	Progress float64     `json:"progress" validate:"min=0"`
	Device   *DeviceInfo `json:"device,omitempty"`
}
