// Package cache is a best-effort Redis layer for cached payloads and click counters.
//
// Every operation degrades to a neutral value when Redis is unreachable, so callers
// keep working uncached instead of failing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL applies when Set is called without a positive TTL.
const DefaultTTL = time.Hour

// UserURLsKey is the key holding an owner's cached URL listing.
func UserURLsKey(ownerID int64) string {
	return "user_urls:" + strconv.FormatInt(ownerID, 10)
}

// ClicksKey is the key holding the click counter of a short code.
func ClicksKey(code string) string {
	return "clicks:" + code
}

// URLKey is the key holding a cached short URL record.
func URLKey(code string) string {
	return "url:" + code
}

// Cache wraps a Redis client with JSON payload caching and atomic counters.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// New creates a new cache over client.
func New(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Get decodes the value stored under key into dest. It reports false when the key
// is absent, undecodable or Redis is unavailable.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn("cache get failed", key, err)
		}

		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.warn("cache value is not valid json", key, err)

		return false
	}

	return true
}

// Set stores value as JSON under key with ttl (DefaultTTL when ttl <= 0).
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.warn("cache value is not serializable", key, err)

		return false
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.warn("cache set failed", key, err)

		return false
	}

	return true
}

// Delete removes key. Deleting a missing key succeeds.
func (c *Cache) Delete(ctx context.Context, key string) bool {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.warn("cache delete failed", key, err)

		return false
	}

	return true
}

// InvalidateUserURLs drops the owner's cached URL listing.
func (c *Cache) InvalidateUserURLs(ctx context.Context, ownerID int64) bool {
	return c.Delete(ctx, UserURLsKey(ownerID))
}

// IncrementClicks atomically increments the counter for code and returns the new value.
// Returns 0 when Redis is unavailable.
func (c *Cache) IncrementClicks(ctx context.Context, code string) int64 {
	n, err := c.client.Incr(ctx, ClicksKey(code)).Result()
	if err != nil {
		c.warn("click increment failed", ClicksKey(code), err)

		return 0
	}

	return n
}

// GetClicks returns the counter for code, 0 if it was never incremented or Redis is unavailable.
func (c *Cache) GetClicks(ctx context.Context, code string) int64 {
	n, err := c.client.Get(ctx, ClicksKey(code)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn("click lookup failed", ClicksKey(code), err)
		}

		return 0
	}

	return n
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) warn(msg, key string, err error) {
	c.logger.Warn(msg, zap.String("key", key), zap.Error(err))
}
