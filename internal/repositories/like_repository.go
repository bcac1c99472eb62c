package repositories

import (
	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(userID uint, targetID string, targetType models.LikeTargetType) error
	HasUserLiked(userID uint, targetID string, targetType models.LikeTargetType) (bool, error)
	GetLikesCount(targetID string, targetType models.LikeTargetType) (int64, error)
	DeleteLikesForTarget(targetID string, targetType models.LikeTargetType) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *PostgresLikeRepository) DeleteLike(userID uint, targetID string, targetType models.LikeTargetType) error {
	res := r.db.Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresLikeRepository) HasUserLiked(userID uint, targetID string, targetType models.LikeTargetType) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) GetLikesCount(targetID string, targetType models.LikeTargetType) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("target_id = ? AND target_type = ?", targetID, targetType).Count(&count).Error
	return count, err
}

// DeleteLikesForTarget removes all likes attached to a deleted entity
func (r *PostgresLikeRepository) DeleteLikesForTarget(targetID string, targetType models.LikeTargetType) error {
	return r.db.Where("target_id = ? AND target_type = ?", targetID, targetType).Delete(&models.Like{}).Error
}
