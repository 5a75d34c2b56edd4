package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded contains information about which limit was exceeded.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

func (e *LimitExceeded) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("rate limit exceeded: %d/%d requests in %s", e.Count, e.Config.Max, e.Config.Window)
	}

	return fmt.Sprintf("rate limit exceeded: %s scope, %d/%d requests in %s",
		e.Scope, e.Count, e.Config.Max, e.Config.Window)
}

// PolicyLimiter enforces rate limits based on a policy and resolved scopes.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records a request for clientKey against every limit of the given scopes.
// A nil *LimitExceeded means the request is allowed.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (*LimitExceeded, error) {
	for _, scope := range scopes {
		for _, limit := range l.policy.Limits[scope] {
			key := fmt.Sprintf("%s:%s:%d", clientKey, scope, limit.Window.Milliseconds())

			exceeded, err := l.record(ctx, key, scope, limit)
			if err != nil || exceeded != nil {
				return exceeded, err
			}
		}
	}

	return nil, nil
}

// AllowEndpoint applies endpoint-specific limits, keyed by the route template
// so every request matching the route shares the client's counters.
func (l *PolicyLimiter) AllowEndpoint(
	ctx context.Context, clientKey, route string, limits []LimitConfig,
) (*LimitExceeded, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:custom:%s:%d", clientKey, route, limit.Window.Milliseconds())

		exceeded, err := l.record(ctx, key, "", limit)
		if err != nil || exceeded != nil {
			return exceeded, err
		}
	}

	return nil, nil
}

func (l *PolicyLimiter) record(ctx context.Context, key string, scope Scope, limit LimitConfig) (*LimitExceeded, error) {
	count, err := l.store.Record(ctx, key, limit.Window)
	if err != nil {
		return nil, err
	}

	if count > limit.Max {
		return &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
	}

	return nil, nil
}
