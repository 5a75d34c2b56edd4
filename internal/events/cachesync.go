package events

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/shortlinks/internal/cache"
	"github.com/serroba/shortlinks/internal/messaging"
)

var ErrCacheSync = errors.New("cache sync failed")

// CacheWriter is the subset of the cache used to keep entries in sync.
type CacheWriter interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	InvalidateUserURLs(ctx context.Context, ownerID int64) bool
}

// NewCacheSyncHandler invalidates the owner's cached listing a second time,
// covering a failed synchronous invalidation, and warms the redirect entry.
// Failing to invalidate nacks the message so it is redelivered; a cold
// redirect entry is harmless.
func NewCacheSyncHandler(c CacheWriter, ttl time.Duration) messaging.Handler[URLCreatedEvent] {
	return func(ctx context.Context, event *URLCreatedEvent) error {
		c.Set(ctx, cache.URLKey(event.Code), event.ShortURL(), ttl)

		if !c.InvalidateUserURLs(ctx, event.OwnerID) {
			return ErrCacheSync
		}

		return nil
	}
}
