package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/auth"
	"github.com/serroba/shortlinks/internal/events"
	"github.com/serroba/shortlinks/internal/messaging"
	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/zap"
)

// URLService is the shortener behaviour the handlers depend on.
type URLService interface {
	Create(ctx context.Context, originalURL string, ownerID int64) (*shortener.ShortURL, error)
	ResolveAndTrack(ctx context.Context, code shortener.Code) (string, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*shortener.ShortURL, error)
	Get(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error)
	Clicks(ctx context.Context, code shortener.Code) int64
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service           URLService
	baseURL           string
	publishURLCreated messaging.Publish[events.URLCreatedEvent]
	logger            *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service URLService,
	baseURL string,
	publishURLCreated messaging.Publish[events.URLCreatedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:           service,
		baseURL:           baseURL,
		publishURLCreated: publishURLCreated,
		logger:            logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	ownerID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	shortURL, err := h.service.Create(ctx, req.Body.OriginalURL, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrEmptyURL):
			return nil, huma.Error422UnprocessableEntity("original_url must not be empty")
		case errors.Is(err, shortener.ErrCodeSpaceExhausted):
			h.logger.Error("no free short code", zap.Int64("owner_id", ownerID), zap.Error(err))

			return nil, huma.Error503ServiceUnavailable("could not allocate a short code, try again")
		default:
			h.logger.Error("failed to create short url", zap.Int64("owner_id", ownerID), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to save url")
		}
	}

	meta := RequestMetaFromContext(ctx)
	if err := h.publishURLCreated(ctx, events.NewURLCreatedEvent(shortURL, meta.ClientIP, meta.UserAgent)); err != nil {
		h.logger.Error("failed to publish url created event",
			zap.String("code", string(shortURL.Code)),
			zap.Error(err),
		)
	}

	resp := &CreateShortURLResponse{Body: h.toBody(shortURL)}
	resp.Location = resp.Body.ShortURL

	return resp, nil
}

func (h *URLHandler) ListURLs(ctx context.Context, _ *struct{}) (*ListShortURLsResponse, error) {
	ownerID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	urls, err := h.service.ListByOwner(ctx, ownerID)
	if err != nil {
		h.logger.Error("failed to list short urls", zap.Int64("owner_id", ownerID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list urls")
	}

	resp := &ListShortURLsResponse{Body: make([]ListedShortURL, 0, len(urls))}
	for _, u := range urls {
		resp.Body = append(resp.Body, ListedShortURL{
			ShortURLBody: h.toBody(u),
			Clicks:       h.service.Clicks(ctx, u.Code),
		})
	}

	return resp, nil
}

func (h *URLHandler) ResolveURL(ctx context.Context, req *CodeRequest) (*ResolveResponse, error) {
	originalURL, err := h.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	resp := &ResolveResponse{}
	resp.Body.OriginalURL = originalURL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	originalURL, err := h.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	return &RedirectResponse{Status: http.StatusFound, Location: originalURL}, nil
}

func (h *URLHandler) GetClicks(ctx context.Context, req *CodeRequest) (*ClicksResponse, error) {
	ownerID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	shortURL, err := h.service.Get(ctx, shortener.Code(req.Code))
	if err != nil && !errors.Is(err, shortener.ErrNotFound) {
		h.logger.Error("failed to get short url", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	// codes owned by someone else are indistinguishable from unknown ones
	if shortURL == nil || shortURL.OwnerID != ownerID {
		return nil, huma.Error404NotFound("Short URL not found")
	}

	resp := &ClicksResponse{}
	resp.Body.ShortCode = req.Code
	resp.Body.Clicks = h.service.Clicks(ctx, shortURL.Code)

	return resp, nil
}

func (h *URLHandler) resolve(ctx context.Context, code string) (string, error) {
	originalURL, err := h.service.ResolveAndTrack(ctx, shortener.Code(code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return "", huma.Error404NotFound("Short URL not found")
		}

		h.logger.Error("failed to resolve short url", zap.String("code", code), zap.Error(err))

		return "", huma.Error500InternalServerError("failed to get url")
	}

	return originalURL, nil
}

func (h *URLHandler) toBody(u *shortener.ShortURL) ShortURLBody {
	return ShortURLBody{
		ID:          u.ID,
		OriginalURL: u.OriginalURL,
		ShortCode:   string(u.Code),
		OwnerID:     u.OwnerID,
		CreatedAt:   u.CreatedAt,
		ShortURL:    h.baseURL + "/" + string(u.Code),
	}
}

func currentUser(ctx context.Context) (int64, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return 0, huma.Error401Unauthorized(auth.ErrInvalidToken.Error())
	}

	return userID, nil
}
