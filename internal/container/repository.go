package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/cache"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/store"
	"github.com/serroba/shortlinks/internal/users"
)

// RepositoryPackage provides the record stores for the configured backend.
// Short URL lookups go through the cache first.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		c, err := do.Invoke[*cache.Cache](i)
		if err != nil {
			return nil, err
		}

		var base shortener.Repository = store.NewMemoryStore()

		if opts.StoreBackend == BackendPostgres {
			pool, err := do.Invoke[*PostgresPool](i)
			if err != nil {
				return nil, err
			}

			base = store.NewPostgresStore(pool.Pool)
		}

		return store.NewCachedRepository(base, c, opts.CacheTTL()), nil
	})

	do.Provide(i, func(i *do.Injector) (users.Repository, error) {
		if do.MustInvoke[*Options](i).StoreBackend == BackendMemory {
			return store.NewMemoryUserStore(), nil
		}

		pool, err := do.Invoke[*PostgresPool](i)
		if err != nil {
			return nil, err
		}

		return store.NewPostgresUserStore(pool.Pool), nil
	})
}
