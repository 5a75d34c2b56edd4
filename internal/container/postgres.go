package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/store"
	"go.uber.org/zap"
)

// PostgresPool is the shared connection pool, closed on injector shutdown.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// PostgresPackage migrates the schema and provides the connection pool.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if err := store.Migrate(opts.DatabaseURL(), logger); err != nil {
			return nil, err
		}

		cfg, err := pgxpool.ParseConfig(opts.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		logger.Info("connected to postgres",
			zap.String("host", cfg.ConnConfig.Host),
			zap.String("database", cfg.ConnConfig.Database))

		return &PostgresPool{Pool: pool}, nil
	})
}
