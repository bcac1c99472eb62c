package repositories

import (
	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	CreateSubscription(sub *models.Subscription) error
	DeleteSubscription(subscriberID, channelID uint) error
	IsSubscribed(subscriberID, channelID uint) (bool, error)
	GetSubscribers(channelID uint) ([]models.User, error)
	GetSubscribedChannels(subscriberID uint) ([]models.User, error)
	GetSubscriberCount(channelID uint) (int64, error)
}

// PostgresSubscriptionRepository implements SubscriptionRepository for PostgreSQL
type PostgresSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresSubscriptionRepository creates a new PostgresSubscriptionRepository
func NewPostgresSubscriptionRepository(db *gorm.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *PostgresSubscriptionRepository) DeleteSubscription(subscriberID, channelID uint) error {
	res := r.db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) IsSubscribed(subscriberID, channelID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Subscription{}).Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresSubscriptionRepository) GetSubscribers(channelID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Table("subscriptions").Select("subscriber_id").Where("channel_id = ?", channelID),
	).Find(&users).Error
	return users, err
}

func (r *PostgresSubscriptionRepository) GetSubscribedChannels(subscriberID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Table("subscriptions").Select("channel_id").Where("subscriber_id = ?", subscriberID),
	).Find(&users).Error
	return users, err
}

func (r *PostgresSubscriptionRepository) GetSubscriberCount(channelID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}
