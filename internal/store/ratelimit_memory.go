package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore keeps sliding-window timestamps in process memory.
// Used for the memory backend and in tests.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	requests map[string][]time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return NewRateLimitMemoryStoreWithClock(time.Now)
}

// NewRateLimitMemoryStoreWithClock creates a store that reads time from now.
func NewRateLimitMemoryStoreWithClock(now func() time.Time) *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		now:      now,
		requests: make(map[string][]time.Time),
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-window)

	// timestamps are appended in order, so the live ones form a suffix
	timestamps := s.requests[key]
	first := len(timestamps)

	for i, ts := range timestamps {
		if ts.After(cutoff) {
			first = i

			break
		}
	}

	live := append(timestamps[first:len(timestamps):len(timestamps)], now)
	s.requests[key] = live

	return int64(len(live)), nil
}
