package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		OriginalURL string `doc:"The URL to shorten" example:"https://www.google.com" json:"original_url"`
	}
}

// ShortURLBody is the public representation of a stored short URL.
type ShortURLBody struct {
	ID          int64     `json:"id"`
	OriginalURL string    `example:"https://www.google.com"       json:"original_url"`
	ShortCode   string    `example:"aB3xY9"                       json:"short_code"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	ShortURL    string    `example:"http://localhost:8888/aB3xY9" json:"short_url"`
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     ShortURLBody
}

// ListedShortURL is a short URL together with its live click count.
type ListedShortURL struct {
	ShortURLBody

	Clicks int64 `json:"clicks"`
}

// ListShortURLsResponse lists the caller's short URLs, newest first.
type ListShortURLsResponse struct {
	Body []ListedShortURL
}

// CodeRequest addresses a short URL by code.
type CodeRequest struct {
	// maxLength tracks shortener.MaxCodeLength
	Code string `doc:"The short code" example:"aB3xY9" maxLength:"16" path:"code"`
}

// ResolveResponse returns the original URL without redirecting.
type ResolveResponse struct {
	Body struct {
		OriginalURL string `example:"https://www.google.com" json:"original_url"`
	}
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// ClicksResponse reports the click count of a short URL.
type ClicksResponse struct {
	Body struct {
		ShortCode string `json:"short_code"`
		Clicks    int64  `json:"clicks"`
	}
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Body struct {
		Email    string `format:"email" json:"email" maxLength:"320"`
		Password string `json:"password" maxLength:"72" minLength:"1"`
	}
}

// UserBody is the public representation of an account.
type UserBody struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserResponse returns an account.
type UserResponse struct {
	Body UserBody
}

// GetUserRequest addresses an account by id.
type GetUserRequest struct {
	ID int64 `path:"id"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
}

// LoginResponse carries a bearer access token.
type LoginResponse struct {
	Body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `example:"bearer" json:"token_type"`
	}
}
