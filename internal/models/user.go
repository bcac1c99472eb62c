package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model         `json:"-"`
	ID                 uint   `json:"id" gorm:"primaryKey"`
	Username           string `json:"username" gorm:"uniqueIndex"`
	FullName           string `json:"full_name"`
	Email              string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Avatar             string `json:"avatar"`
	CoverImage         string `json:"cover_image,omitempty"`
	Password           string `json:"-"` // Store hashed password, ignore for JSON serialization
	FirebaseUID        string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	WatchHistoryPaused bool   `json:"watch_history_paused"` // When true, progress reports are dropped
}

// UserCompact is the public projection of a user attached to enriched payloads
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

// ToCompact returns the public projection of a user
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

type CreateLocalUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Avatar   string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
