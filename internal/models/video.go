package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video represents an uploaded video stored in MongoDB
type Video struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID      uint               `json:"owner_id" bson:"owner_id"` // PostgreSQL user ID of the channel that uploaded it
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	VideoURL     string             `json:"video_url" bson:"video_url"`
	ThumbnailURL string             `json:"thumbnail_url" bson:"thumbnail_url"`
	Duration     float64            `json:"duration" bson:"duration"` // Seconds, captured at upload time
	Views        int64              `json:"views" bson:"views"`
	IsPublished  bool               `json:"is_published" bson:"is_published"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// VideoCompact is the projection joined into watch-history listings
type VideoCompact struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	OwnerID      uint               `json:"owner_id" bson:"owner_id"`
	Title        string             `json:"title" bson:"title"`
	ThumbnailURL string             `json:"thumbnail_url" bson:"thumbnail_url"`
	Duration     float64            `json:"duration" bson:"duration"`
}

// CreateVideoRequest defines the multipart form fields accompanying an upload
type CreateVideoRequest struct {
	Title       string  `form:"title" validate:"required,min=1,max=100"`
	Description string  `form:"description" validate:"omitempty,max=1000"`
	Duration    float64 `form:"duration" validate:"required,gt=0"`
}

// UpdateVideoRequest defines the request body for updating video metadata
type UpdateVideoRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
