package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/auth"
	"github.com/serroba/shortlinks/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a Huma middleware that applies policy-based rate limiting.
//
// Per-endpoint configuration is read from operation metadata under
// ratelimit.MetadataKey: Disabled skips limiting, Limits replaces the policy
// for that route and Scope overrides method-based scope detection. When the
// counter store fails the request is let through.
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		path := operationPath(ctx)
		cfg := ratelimit.GetEndpointConfig(ctx)

		if cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		var (
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		key := clientKey(ctx)

		if cfg != nil && len(cfg.Limits) > 0 {
			exceeded, err = limiter.AllowEndpoint(ctx.Context(), key, path, cfg.Limits)
		} else {
			exceeded, err = limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		}

		// counters share Redis with the cache; an outage must not block requests
		if err != nil {
			logger.Warn("rate limit check failed, allowing request", zap.String("path", path), zap.Error(err))
			next(ctx)

			return
		}

		if exceeded != nil {
			logger.Warn("rate limit exceeded",
				zap.String("path", path),
				zap.String("method", ctx.Method()),
				zap.String("scope", string(exceeded.Scope)),
				zap.Int64("count", exceeded.Count),
				zap.Int64("max", exceeded.Config.Max),
				zap.Duration("window", exceeded.Config.Window),
				zap.String("client_ip", clientIP(ctx)),
			)

			ctx.SetHeader("Retry-After", strconv.Itoa(int(exceeded.Config.Window.Seconds())))
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, exceeded.Error())

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}

// clientKey identifies the caller: authenticated users by id, anonymous ones
// by a hash of IP and User-Agent.
func clientKey(ctx huma.Context) string {
	if userID, ok := auth.UserIDFromContext(ctx.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}

	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return "anon:" + hex.EncodeToString(hash[:])
}
