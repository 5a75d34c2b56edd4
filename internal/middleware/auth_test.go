package middleware_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/auth"
	"github.com/serroba/shortlinks/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var bearer = []map[string][]string{{"bearer": {}}}

func TestAuthenticate(t *testing.T) {
	issuer, err := auth.NewIssuer("secret", "HS256", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	other, err := auth.NewIssuer("other-secret", "HS256", time.Hour)
	require.NoError(t, err)

	forged, err := other.Issue(42)
	require.NoError(t, err)

	api := newAPI(t)
	api.UseMiddleware(middleware.Authenticate(api, issuer, zap.NewNop()))

	var seen struct {
		userID int64
		ok     bool
	}

	whoami := func(ctx context.Context, _ *struct{}) (*okOutput, error) {
		seen.userID, seen.ok = auth.UserIDFromContext(ctx)

		return &okOutput{}, nil
	}

	huma.Register(api, huma.Operation{
		OperationID: "private", Method: http.MethodGet, Path: "/private", Security: bearer,
	}, whoami)
	huma.Register(api, huma.Operation{
		OperationID: "public", Method: http.MethodGet, Path: "/public",
	}, whoami)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantUser   bool
	}{
		{"private with token", "/private", "Authorization: Bearer " + token, http.StatusOK, true},
		{"scheme is case insensitive", "/private", "Authorization: bearer " + token, http.StatusOK, true},
		{"private without token", "/private", "X-None: 1", http.StatusUnauthorized, false},
		{"private with wrong scheme", "/private", "Authorization: Basic " + token, http.StatusUnauthorized, false},
		{"private with forged token", "/private", "Authorization: Bearer " + forged, http.StatusUnauthorized, false},
		{"private with empty token", "/private", "Authorization: Bearer ", http.StatusUnauthorized, false},
		{"public without token", "/public", "X-None: 1", http.StatusOK, false},
		{"public with token", "/public", "Authorization: Bearer " + token, http.StatusOK, true},
		{"public ignores bad token", "/public", "Authorization: Bearer nope", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen.userID, seen.ok = 0, false

			resp := api.Get(tt.path, tt.header)

			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, tt.wantUser, seen.ok)

			if tt.wantUser {
				assert.Equal(t, int64(42), seen.userID)
			}

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", resp.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
