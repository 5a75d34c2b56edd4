package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/shortlinks/internal/cache"
	"go.uber.org/zap"
)

// Cache is the subset of the cache/counter layer the service relies on.
// Implementations must never fail loudly; they return neutral values instead.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	InvalidateUserURLs(ctx context.Context, ownerID int64) bool
	IncrementClicks(ctx context.Context, code string) int64
	GetClicks(ctx context.Context, code string) int64
}

// Service composes code generation, the record store and the cache/counter layer.
type Service struct {
	repo         Repository
	cache        Cache
	generateCode CodeGenerator
	maxAttempts  int
	listTTL      time.Duration
	logger       *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMaxAttempts bounds code resolution and duplicate-code retries.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithListTTL sets how long per-owner listings stay cached.
func WithListTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.listTTL = ttl
		}
	}
}

// NewService creates a new shortener service.
func NewService(repo Repository, c Cache, generator CodeGenerator, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		cache:        c,
		generateCode: generator,
		maxAttempts:  DefaultMaxAttempts,
		listTTL:      cache.DefaultTTL,
		logger:       logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create shortens originalURL on behalf of ownerID.
//
// The pre-insert existence check only reduces constraint violations; the storage
// uniqueness constraint is authoritative, so a duplicate on insert restarts the
// whole attempt with a fresh code.
func (s *Service) Create(ctx context.Context, originalURL string, ownerID int64) (*ShortURL, error) {
	if strings.TrimSpace(originalURL) == "" {
		return nil, ErrEmptyURL
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := ResolveUniqueCode(ctx, s.generateCode, s.repo.Exists, s.maxAttempts)
		if err != nil {
			return nil, err
		}

		shortURL := &ShortURL{
			Code:        code,
			OriginalURL: originalURL,
			OwnerID:     ownerID,
			CreatedAt:   time.Now().UTC(),
		}

		err = s.repo.Create(ctx, shortURL)
		if errors.Is(err, ErrDuplicateCode) {
			s.logger.Debug("short code taken on insert, retrying",
				zap.String("code", string(code)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("create short url: %w", err)
		}

		if !s.cache.InvalidateUserURLs(ctx, ownerID) {
			s.logger.Warn("failed to invalidate cached url list", zap.Int64("owner_id", ownerID))
		}

		return shortURL, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// ResolveAndTrack returns the original URL for code and records a click.
// A failing counter never fails the redirect.
func (s *Service) ResolveAndTrack(ctx context.Context, code Code) (string, error) {
	shortURL, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}

	s.cache.IncrementClicks(ctx, string(code))

	return shortURL.OriginalURL, nil
}

// ListByOwner returns the owner's records, served from cache when possible.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*ShortURL, error) {
	key := cache.UserURLsKey(ownerID)

	var cached []*ShortURL
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	urls, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list urls for owner %d: %w", ownerID, err)
	}

	if urls == nil {
		urls = []*ShortURL{}
	}

	s.cache.Set(ctx, key, urls, s.listTTL)

	return urls, nil
}

// Get returns the record for code without tracking a click.
func (s *Service) Get(ctx context.Context, code Code) (*ShortURL, error) {
	return s.repo.GetByCode(ctx, code)
}

// Clicks returns the click counter for code; zero when unknown or unavailable.
func (s *Service) Clicks(ctx context.Context, code Code) int64 {
	return s.cache.GetClicks(ctx, string(code))
}
