package models

import "time"

// Subscription represents a user subscribing to a channel (another user)
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubscriberID uint      `json:"subscriber_id" gorm:"index;uniqueIndex:idx_subscriber_channel"`
	ChannelID    uint      `json:"channel_id" gorm:"index;uniqueIndex:idx_subscriber_channel"`
	CreatedAt    time.Time `json:"created_at"`
}
