package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	Healthy   = "healthy"
	Unhealthy = "unhealthy"
	Disabled  = "disabled"
)

// DefaultTimeout bounds each dependency check.
const DefaultTimeout = 2 * time.Second

// Checker defines the interface for checking service health.
// *cache.Cache and *pgxpool.Pool satisfy it.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	redis    Checker
	database Checker
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHandler creates a new health handler. A nil database checker reports the
// database as disabled, as with the in-memory store.
func NewHandler(redis, database Checker, logger *zap.Logger) *Handler {
	return &Handler{redis: redis, database: database, timeout: DefaultTimeout, logger: logger}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status   string `doc:"ok when every dependency is healthy" enum:"ok,degraded" json:"status"`
		Redis    string `doc:"Cache and counter store"                                json:"redis"`
		Database string `doc:"Record store"                                           json:"database"`
	}
}

// Check performs a health check of the application and its dependencies.
// Dependencies are pinged concurrently.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		resp.Body.Redis = h.probe(ctx, "redis", h.redis)
	}()

	go func() {
		defer wg.Done()

		resp.Body.Database = h.probe(ctx, "database", h.database)
	}()

	wg.Wait()

	resp.Body.Status = StatusOK
	if resp.Body.Redis == Unhealthy || resp.Body.Database == Unhealthy {
		resp.Body.Status = StatusDegraded
	}

	return resp, nil
}

func (h *Handler) probe(ctx context.Context, name string, checker Checker) string {
	if checker == nil {
		return Disabled
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := checker.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))

		return Unhealthy
	}

	return Healthy
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Service health",
		Tags:        []string{"Health"},
	}, h.Check)
}
