package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlinks/internal/auth"
	"github.com/serroba/shortlinks/internal/cache"
	"github.com/serroba/shortlinks/internal/events"
	"github.com/serroba/shortlinks/internal/handlers"
	"github.com/serroba/shortlinks/internal/middleware"
	"github.com/serroba/shortlinks/internal/ratelimit"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/store"
	"github.com/serroba/shortlinks/internal/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

const baseURL = "http://sho.rt"

// publishRecorder captures published events and can be told to fail.
type publishRecorder struct {
	mu     sync.Mutex
	events []*events.URLCreatedEvent
	err    error
}

func (p *publishRecorder) publish(_ context.Context, event *events.URLCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.events = append(p.events, event)

	return nil
}

type testServer struct {
	api       humatest.TestAPI
	redis     *miniredis.Miniredis
	published *publishRecorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	c := cache.New(client, logger)

	gen, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
	require.NoError(t, err)

	repo := store.NewCachedRepository(store.NewMemoryStore(), c, cache.DefaultTTL)
	urls := shortener.NewService(repo, c, gen, logger)
	accounts := users.NewService(store.NewMemoryUserStore(), bcrypt.MinCost)

	issuer, err := auth.NewIssuer("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	_, api := humatest.New(t)
	limiter := ratelimit.NewPolicyLimiter(store.NewRateLimitMemoryStore(), ratelimit.DefaultPolicy())

	api.UseMiddleware(
		middleware.RequestMeta(api),
		middleware.Authenticate(api, issuer, logger),
		middleware.PolicyRateLimiter(api, limiter, ratelimit.NewOperationScopeResolver(), logger),
	)

	published := &publishRecorder{}
	handlers.RegisterRoutes(api,
		handlers.NewURLHandler(urls, baseURL, published.publish, logger),
		handlers.NewUserHandler(accounts, issuer, logger),
	)

	return &testServer{api: api, redis: mr, published: published}
}

// login registers an account and returns its id and an Authorization header.
func (s *testServer) login(t *testing.T, email string) (int64, string) {
	t.Helper()

	resp := s.api.Post("/users", map[string]any{"email": email, "password": "hunter2"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var user handlers.UserBody
	decode(t, resp.Body.Bytes(), &user)

	resp = s.api.Post("/login", map[string]any{"email": email, "password": "hunter2"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp.Body.Bytes(), &login)

	return user.ID, "Authorization: Bearer " + login.AccessToken
}

func (s *testServer) shorten(t *testing.T, authHeader, originalURL string) handlers.ShortURLBody {
	t.Helper()

	resp := s.api.Post("/urls", authHeader, map[string]any{"original_url": originalURL})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body handlers.ShortURLBody
	decode(t, resp.Body.Bytes(), &body)

	return body
}

func decode(t *testing.T, data []byte, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, dest))
}

type errorBody struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()

	var body errorBody
	decode(t, data, &body)

	return body
}
