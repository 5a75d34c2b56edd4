package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/shortlinks/internal/ratelimit"
	"github.com/serroba/shortlinks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) Record(context.Context, string, time.Duration) (int64, error) {
	return 0, errStoreDown
}

func TestPolicyBuilder(t *testing.T) {
	t.Parallel()

	policy := ratelimit.NewPolicyBuilder().
		AddLimit(ratelimit.ScopeWrite, 5, time.Minute).
		AddLimit(ratelimit.ScopeWrite, 50, time.Hour).
		AddLimit(ratelimit.ScopeRead, 100, time.Minute).
		Build()

	assert.Equal(t, []ratelimit.LimitConfig{
		{Window: time.Minute, Max: 5},
		{Window: time.Hour, Max: 50},
	}, policy.Limits[ratelimit.ScopeWrite])
	assert.Len(t, policy.Limits[ratelimit.ScopeRead], 1)
	assert.Empty(t, policy.Limits[ratelimit.ScopeGlobal])
}

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	policy := ratelimit.DefaultPolicy()

	for _, scope := range []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeRead, ratelimit.ScopeWrite} {
		assert.NotEmpty(t, policy.Limits[scope], scope)
	}

	assert.Greater(t, policy.Limits[ratelimit.ScopeRead][0].Max, policy.Limits[ratelimit.ScopeWrite][0].Max)
}

func TestPolicyLimiter_Allow(t *testing.T) {
	t.Parallel()

	policy := ratelimit.NewPolicyBuilder().
		AddLimit(ratelimit.ScopeGlobal, 100, time.Minute).
		AddLimit(ratelimit.ScopeWrite, 2, time.Minute).
		Build()
	scopes := []ratelimit.Scope{ratelimit.ScopeGlobal, ratelimit.ScopeWrite}

	t.Run("rejects after the scope limit", func(t *testing.T) {
		t.Parallel()

		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)
		ctx := context.Background()

		for range 2 {
			exceeded, err := limiter.Allow(ctx, "client", scopes)
			require.NoError(t, err)
			require.Nil(t, exceeded)
		}

		exceeded, err := limiter.Allow(ctx, "client", scopes)
		require.NoError(t, err)
		require.NotNil(t, exceeded)
		assert.Equal(t, ratelimit.ScopeWrite, exceeded.Scope)
		assert.Equal(t, int64(3), exceeded.Count)
		assert.Contains(t, exceeded.Error(), "write scope")
	})

	t.Run("clients are counted separately", func(t *testing.T) {
		t.Parallel()

		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)
		ctx := context.Background()

		for range 2 {
			_, err := limiter.Allow(ctx, "a", scopes)
			require.NoError(t, err)
		}

		exceeded, err := limiter.Allow(ctx, "b", scopes)
		require.NoError(t, err)
		assert.Nil(t, exceeded)
	})

	t.Run("scopes without limits always pass", func(t *testing.T) {
		t.Parallel()

		limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), policy)

		for range 10 {
			exceeded, err := limiter.Allow(context.Background(), "c", []ratelimit.Scope{ratelimit.ScopeRead})
			require.NoError(t, err)
			require.Nil(t, exceeded)
		}
	})

	t.Run("store errors propagate", func(t *testing.T) {
		t.Parallel()

		limiter := ratelimit.NewPolicyLimiter(failingStore{}, policy)

		_, err := limiter.Allow(context.Background(), "d", scopes)
		require.ErrorIs(t, err, errStoreDown)
	})
}

func TestPolicyLimiter_AllowEndpoint(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), ratelimit.NewPolicyBuilder().Build())
	limits := []ratelimit.LimitConfig{{Window: time.Minute, Max: 15}}
	ctx := context.Background()

	for range 15 {
		exceeded, err := limiter.AllowEndpoint(ctx, "client", "/users", limits)
		require.NoError(t, err)
		require.Nil(t, exceeded)
	}

	exceeded, err := limiter.AllowEndpoint(ctx, "client", "/users", limits)
	require.NoError(t, err)
	require.NotNil(t, exceeded)
	assert.Empty(t, exceeded.Scope)
	assert.Equal(t, "rate limit exceeded: 16/15 requests in 1m0s", exceeded.Error())

	exceeded, err = limiter.AllowEndpoint(ctx, "client", "/login", limits)
	require.NoError(t, err)
	assert.Nil(t, exceeded, "routes keep separate counters")
}
