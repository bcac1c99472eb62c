package models

import "gorm.io/gorm"

// LikeTargetType enumerates the kinds of content a like can attach to
type LikeTargetType string

const (
	LikeTargetVideo   LikeTargetType = "video"
	LikeTargetComment LikeTargetType = "comment"
	LikeTargetTweet   LikeTargetType = "tweet"
)

// Like represents a like on a video, comment or tweet
type Like struct {
	gorm.Model
	UserID     uint           `json:"user_id" gorm:"index;uniqueIndex:idx_user_target"`
	TargetID   string         `json:"target_id" gorm:"uniqueIndex:idx_user_target"` // MongoDB ObjectID as string
	TargetType LikeTargetType `json:"target_type" gorm:"size:20;uniqueIndex:idx_user_target"`
}
