package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Gajendra1092/VideoTube-sub001/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BadgeCache caches per-user unread notification counts in Redis. The count
// is a badge value: staleness inside the TTL window is acceptable, and any
// cache failure degrades to a direct store count.
type BadgeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBadgeCache connects to Redis and returns a badge cache. A nil *BadgeCache
// is safe to use; every method no-ops on it.
func NewBadgeCache(host, port, password string, ttl time.Duration) (*BadgeCache, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Log.Info("Redis badge cache connected", zap.String("addr", client.Options().Addr))
	return &BadgeCache{client: client, ttl: ttl}, nil
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// GetUnreadCount returns the cached count and whether it was present
func (c *BadgeCache) GetUnreadCount(ctx context.Context, userID uint) (int64, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetUnreadCount stores the count with the configured TTL, best-effort
func (c *BadgeCache) SetUnreadCount(ctx context.Context, userID uint, count int64) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, unreadKey(userID), count, c.ttl).Err(); err != nil {
		logger.Log.Debug("badge cache set failed", zap.Uint("user", userID), zap.Error(err))
	}
}

// InvalidateUnreadCount drops the cached count after any read-state mutation
func (c *BadgeCache) InvalidateUnreadCount(ctx context.Context, userID uint) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		logger.Log.Debug("badge cache invalidate failed", zap.Uint("user", userID), zap.Error(err))
	}
}

// Close closes the Redis connection gracefully
func (c *BadgeCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
