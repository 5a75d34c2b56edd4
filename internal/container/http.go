package container

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/auth"
	"github.com/serroba/shortlinks/internal/cache"
	"github.com/serroba/shortlinks/internal/events"
	"github.com/serroba/shortlinks/internal/handlers"
	"github.com/serroba/shortlinks/internal/health"
	"github.com/serroba/shortlinks/internal/messaging"
	"github.com/serroba/shortlinks/internal/middleware"
	"github.com/serroba/shortlinks/internal/ratelimit"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/users"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the Huma API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)

		router := chi.NewMux()
		router.Use(chimw.RequestID, chimw.Recoverer)
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins(),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Location", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		issuer, err := do.Invoke[*auth.Issuer](i)
		if err != nil {
			return nil, err
		}

		urls, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		accounts, err := do.Invoke[*users.Service](i)
		if err != nil {
			return nil, err
		}

		limiter, err := do.Invoke[*ratelimit.PolicyLimiter](i)
		if err != nil {
			return nil, err
		}

		publish, err := do.Invoke[messaging.Publish[events.URLCreatedEvent]](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Short Links", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.Authenticate(api, issuer, logger),
			middleware.PolicyRateLimiter(api, limiter, ratelimit.NewOperationScopeResolver(), logger),
		)

		health.RegisterRoutes(api, health.NewHandler(do.MustInvoke[*cache.Cache](i), databaseChecker(i, opts), logger))
		handlers.RegisterRoutes(api,
			handlers.NewURLHandler(urls, opts.PublicBaseURL(), publish, logger),
			handlers.NewUserHandler(accounts, issuer, logger),
		)

		return api, nil
	})
}

func databaseChecker(i *do.Injector, opts *Options) health.Checker {
	if opts.StoreBackend != BackendPostgres {
		return nil
	}

	return do.MustInvoke[*PostgresPool](i)
}
