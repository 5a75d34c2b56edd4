package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/ratelimit"
)

// SecurityScheme is the name of the bearer token scheme in the OpenAPI document.
const SecurityScheme = "bearer"

var (
	bearerAuth = []map[string][]string{{SecurityScheme: {}}}

	accountLimits = map[string]any{
		ratelimit.MetadataKey: ratelimit.EndpointConfig{
			Limits: []ratelimit.LimitConfig{{Window: time.Minute, Max: 15}},
		},
	}
)

// RegisterRoutes registers account and URL routes. Operations carrying
// Security require a bearer token.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, userHandler *UserHandler) {
	registerSecurityScheme(api)

	huma.Register(api, huma.Operation{
		OperationID:   "register-user",
		Method:        http.MethodPost,
		Path:          "/users",
		Summary:       "Register a user",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
		Metadata:      accountLimits,
	}, userHandler.Register)

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a user",
		Tags:        []string{"Users"},
		Metadata:    accountLimits,
	}, userHandler.GetUser)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "Exchange credentials for an access token",
		Tags:        []string{"Authentication"},
		Metadata:    accountLimits,
	}, userHandler.Login)

	// Writes are bounded per minute, per hour and per day.
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/urls",
		Summary:       "Create short URL",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerAuth,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "list-short-urls",
		Method:      http.MethodGet,
		Path:        "/urls",
		Summary:     "List your short URLs",
		Tags:        []string{"URLs"},
		Security:    bearerAuth,
	}, urlHandler.ListURLs)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-short-url",
		Method:      http.MethodGet,
		Path:        "/urls/r/{code}",
		Summary:     "Resolve a short code",
		Description: "Returns the original URL and counts a click.",
		Tags:        []string{"URLs"},
	}, urlHandler.ResolveURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-clicks",
		Method:      http.MethodGet,
		Path:        "/urls/{code}/clicks",
		Summary:     "Click count of one of your short URLs",
		Tags:        []string{"URLs"},
		Security:    bearerAuth,
	}, urlHandler.GetClicks)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{{Window: time.Minute, Max: 1000}},
			},
		},
	}, urlHandler.RedirectToURL)
}

func registerSecurityScheme(api huma.API) {
	components := api.OpenAPI().Components
	if components.SecuritySchemes == nil {
		components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}

	components.SecuritySchemes[SecurityScheme] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
}
