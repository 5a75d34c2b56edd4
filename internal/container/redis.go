package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/cache"
	"go.uber.org/zap"
)

// RedisConn is the shared Redis client, closed on injector shutdown.
type RedisConn struct {
	*redis.Client
}

// Shutdown closes the client. Stream publishers and subscribers close the
// shared client themselves, so an already closed client is fine.
func (c *RedisConn) Shutdown() error {
	if err := c.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}

	return nil
}

// RedisPackage provides the Redis client. The client reconnects on its own,
// so an unreachable server only logs a warning at startup.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisConn, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		client := redis.NewClient(&redis.Options{
			Addr:         opts.RedisAddr,
			Password:     opts.RedisPassword,
			DB:           opts.RedisDB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, continuing degraded",
				zap.String("addr", opts.RedisAddr), zap.Error(err))
		}

		return &RedisConn{Client: client}, nil
	})
}

// CachePackage provides the cache and counter layer.
func CachePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*cache.Cache, error) {
		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}

		return cache.New(conn.Client, do.MustInvoke[*zap.Logger](i)), nil
	})
}
