package repositories

import (
	"context"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification data operations.
// Every mutating operation is scoped to the recipient: ids that belong to a
// different user are silently excluded, never an error.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetByRecipient(ctx context.Context, recipient uint, skip, limit int64, unreadOnly bool) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipient uint) (int64, error)
	MarkRead(ctx context.Context, ids []string, recipient uint) (int64, error)
	MarkAllRead(ctx context.Context, recipient uint) (int64, error)
	DeleteNotifications(ctx context.Context, ids []string, recipient uint) (int64, error)
	DeleteAllForRecipient(ctx context.Context, recipient uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification persists a new notification in MongoDB
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// GetByRecipient retrieves a page of a user's notifications, newest first.
// Ties on created_at are broken by _id so the order is stable across pages.
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipient uint, skip, limit int64, unreadOnly bool) ([]models.Notification, int64, error) {
	filter := bson.M{"recipient": recipient}
	if unreadOnly {
		filter["is_read"] = false
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread returns the number of unread notifications for a user
func (r *MongoNotificationRepository) CountUnread(ctx context.Context, recipient uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient": recipient, "is_read": false})
}

// objectIDsFromHex converts hex ids, dropping malformed ones
func objectIDsFromHex(ids []string) []primitive.ObjectID {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	return objIDs
}

// MarkRead flips is_read on the given notifications that belong to recipient
// and returns the number of records affected
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, ids []string, recipient uint) (int64, error) {
	objIDs := objectIDsFromHex(ids)
	if len(objIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": objIDs}, "recipient": recipient, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkAllRead flips is_read on all of a user's unread notifications
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipient uint) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteNotifications deletes the given notifications that belong to recipient
func (r *MongoNotificationRepository) DeleteNotifications(ctx context.Context, ids []string, recipient uint) (int64, error) {
	objIDs := objectIDsFromHex(ids)
	if len(objIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": objIDs}, "recipient": recipient})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAllForRecipient removes every notification owned by a user
func (r *MongoNotificationRepository) DeleteAllForRecipient(ctx context.Context, recipient uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"recipient": recipient})
	return err
}

// DeleteExpired removes notifications whose expires_at has elapsed. The TTL
// index does this server-side eventually; the sweeper calls this for a
// deterministic cleanup interval.
func (r *MongoNotificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
