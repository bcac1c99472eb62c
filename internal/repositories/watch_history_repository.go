package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WatchHistoryRepository defines the interface for watch-history data
// operations. Records are keyed by the (user_id, video_id) pair, enforced
// unique by a compound index.
type WatchHistoryRepository interface {
	GetByUserAndVideo(ctx context.Context, userID uint, videoID string) (*models.WatchHistory, error)
	Upsert(ctx context.Context, record *models.WatchHistory) error
	ListByUser(ctx context.Context, userID uint, skip, limit int64) ([]models.WatchHistoryWithVideo, int64, error)
	GetUserStats(ctx context.Context, userID uint) (*models.WatchStatsAggregate, error)
	DeleteByUserAndVideo(ctx context.Context, userID uint, videoID string) error
	DeleteAllForUser(ctx context.Context, userID uint) error
}

// MongoWatchHistoryRepository implements WatchHistoryRepository for MongoDB
type MongoWatchHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoWatchHistoryRepository creates a new MongoWatchHistoryRepository
func NewMongoWatchHistoryRepository(db *mongo.Database) *MongoWatchHistoryRepository {
	return &MongoWatchHistoryRepository{collection: db.Collection("watchhistories")}
}

// GetByUserAndVideo retrieves the single record for a (user, video) pair
func (r *MongoWatchHistoryRepository) GetByUserAndVideo(ctx context.Context, userID uint, videoID string) (*models.WatchHistory, error) {
	var record models.WatchHistory
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "video_id": videoID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Upsert writes the record keyed by its (user_id, video_id) pair. The unique
// compound index turns racing first-writes for the same pair into a single
// document; a last-write-wins race between updates is accepted.
func (r *MongoWatchHistoryRepository) Upsert(ctx context.Context, record *models.WatchHistory) error {
	record.UpdatedAt = time.Now()
	filter := bson.M{"user_id": record.UserID, "video_id": record.VideoID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, record, opts)
	return err
}

// ListByUser returns a page of a user's history joined with video metadata,
// most recently watched first
func (r *MongoWatchHistoryRepository) ListByUser(ctx context.Context, userID uint, skip, limit int64) ([]models.WatchHistoryWithVideo, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, 0, err
	}

	// video_id is stored as a hex string, so the lookup converts it before
	// matching against videos._id.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_watched_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from": "videos",
			"let":  bson.M{"vid": bson.M{"$toObjectId": "$video_id"}},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$vid"}}}},
				bson.M{"$project": bson.M{"owner_id": 1, "title": 1, "thumbnail_url": 1, "duration": 1}},
			},
			"as": "video",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$video", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []models.WatchHistoryWithVideo
	if err = cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// GetUserStats aggregates a user's watch history into summary figures.
// Returns nil (not an error) when the user has no records.
func (r *MongoWatchHistoryRepository) GetUserStats(ctx context.Context, userID uint) (*models.WatchStatsAggregate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":                 nil,
			"total_videos":        bson.M{"$sum": 1},
			"total_watch_seconds": bson.M{"$sum": "$watch_progress"},
			"completed_videos":    bson.M{"$sum": bson.M{"$cond": bson.A{"$is_completed", 1, 0}}},
			"average_percentage":  bson.M{"$avg": "$watch_percentage"},
			"total_sessions":      bson.M{"$sum": "$watch_sessions"},
			"first_watched_at":    bson.M{"$min": "$last_watched_at"},
			"last_watched_at":     bson.M{"$max": "$last_watched_at"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.WatchStatsAggregate
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// DeleteByUserAndVideo removes one (user, video) record
func (r *MongoWatchHistoryRepository) DeleteByUserAndVideo(ctx context.Context, userID uint, videoID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "video_id": videoID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("watch history for video %s: %w", videoID, ErrNotFound)
	}
	return nil
}

// DeleteAllForUser clears a user's entire watch history
func (r *MongoWatchHistoryRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
