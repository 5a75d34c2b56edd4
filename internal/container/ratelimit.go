package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/ratelimit"
	"github.com/serroba/shortlinks/internal/store"
)

// RateLimitPackage provides the policy limiter. Counters live in Redis so
// limits hold across replicas.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		return ratelimit.NewPolicyLimiter(store.NewRateLimitRedisStore(conn.Client), ratelimit.DefaultPolicy()), nil
	})
}
