package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/auth"
	"go.uber.org/zap"
)

// TokenVerifier turns a bearer token into a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Authenticate resolves the bearer token of every request. Operations that
// declare Security reject missing or invalid tokens with 401; public ones get
// the user id on the context when a valid token happens to be present.
func Authenticate(
	api huma.API, verifier TokenVerifier, logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		required := requiresAuth(ctx.Operation())

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			if required {
				unauthorized(api, ctx)

				return
			}

			next(ctx)

			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			if required {
				logger.Debug("rejected token", zap.String("path", operationPath(ctx)), zap.Error(err))
				unauthorized(api, ctx)

				return
			}

			next(ctx)

			return
		}

		next(huma.WithContext(ctx, auth.ContextWithUserID(ctx.Context(), userID)))
	}
}

func requiresAuth(op *huma.Operation) bool {
	return op != nil && len(op.Security) > 0
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

func unauthorized(api huma.API, ctx huma.Context) {
	ctx.SetHeader("WWW-Authenticate", "Bearer")
	_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
}
