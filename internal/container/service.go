package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/auth"
	"github.com/serroba/shortlinks/internal/cache"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/users"
	"go.uber.org/zap"
)

// ServicePackage provides the shortener, account and token services.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			repo,
			do.MustInvoke[*cache.Cache](i),
			generator,
			do.MustInvoke[*zap.Logger](i),
			shortener.WithMaxAttempts(opts.MaxCodeAttempts),
			shortener.WithListTTL(opts.CacheTTL()),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*users.Service, error) {
		repo, err := do.Invoke[users.Repository](i)
		if err != nil {
			return nil, err
		}

		return users.NewService(repo, do.MustInvoke[*Options](i).BcryptCost), nil
	})

	do.Provide(i, func(i *do.Injector) (*auth.Issuer, error) {
		opts := do.MustInvoke[*Options](i)

		return auth.NewIssuer(opts.SecretKey, opts.TokenAlgorithm, opts.AccessTokenTTL())
	})
}
