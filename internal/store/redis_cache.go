package store

import (
	"context"
	"time"

	"github.com/serroba/shortlinks/internal/cache"
	"github.com/serroba/shortlinks/internal/shortener"
)

// PayloadCache is the part of the cache layer used for record lookups.
type PayloadCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
}

// CachedRepository wraps a Repository with cache-first code lookups.
type CachedRepository struct {
	store shortener.Repository
	cache PayloadCache
	ttl   time.Duration
}

// NewCachedRepository creates a new cached repository decorator.
func NewCachedRepository(store shortener.Repository, c PayloadCache, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		store: store,
		cache: c,
		ttl:   ttl,
	}
}

// Create stores a short URL in the underlying store and updates the cache.
func (r *CachedRepository) Create(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := r.store.Create(ctx, shortURL); err != nil {
		return err
	}

	// Write-through: update cache after successful save
	r.cache.Set(ctx, cache.URLKey(string(shortURL.Code)), shortURL, r.ttl)

	return nil
}

// GetByCode retrieves a short URL by its code, checking cache first.
// Unknown codes are not cached.
func (r *CachedRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	key := cache.URLKey(string(code))

	var cached shortener.ShortURL
	if r.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	url, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, url, r.ttl)

	return url, nil
}

func (r *CachedRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*shortener.ShortURL, error) {
	return r.store.ListByOwner(ctx, ownerID)
}

func (r *CachedRepository) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	return r.store.Exists(ctx, code)
}

// Compile-time check.
var _ shortener.Repository = (*CachedRepository)(nil)
