package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/users"
	"go.uber.org/zap"
)

// UserService is the account behaviour the handlers depend on.
type UserService interface {
	Register(ctx context.Context, email, password string) (*users.User, error)
	Get(ctx context.Context, id int64) (*users.User, error)
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// UserHandler handles registration, lookup and login.
type UserHandler struct {
	users  UserService
	tokens TokenIssuer
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service UserService, tokens TokenIssuer, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: service, tokens: tokens, logger: logger}
}

func (h *UserHandler) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	user, err := h.users.Register(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			return nil, huma.Error409Conflict("Email already registered")
		case errors.Is(err, users.ErrInvalidInput), errors.Is(err, users.ErrPasswordTooLong):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		default:
			h.logger.Error("failed to register user", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to register user")
		}
	}

	return &UserResponse{Body: toUserBody(user)}, nil
}

func (h *UserHandler) GetUser(ctx context.Context, req *GetUserRequest) (*UserResponse, error) {
	user, err := h.users.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, huma.Error404NotFound("User not found!")
		}

		h.logger.Error("failed to get user", zap.Int64("user_id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get user")
	}

	return &UserResponse{Body: toUserBody(user)}, nil
}

func (h *UserHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := h.users.Authenticate(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			return nil, huma.Error403Forbidden("Invalid Credentials")
		}

		h.logger.Error("failed to authenticate user", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to log in")
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Int64("user_id", user.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to log in")
	}

	resp := &LoginResponse{}
	resp.Body.AccessToken = token
	resp.Body.TokenType = "bearer"

	return resp, nil
}

func toUserBody(u *users.User) UserBody {
	return UserBody{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
