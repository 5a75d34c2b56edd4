package shortener

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record exists for a short code.
	ErrNotFound = errors.New("short url not found")
	// ErrDuplicateCode is returned by a Repository when the short code is already taken.
	ErrDuplicateCode = errors.New("short code already exists")
	// ErrCodeSpaceExhausted is returned when no free code was found within the attempt budget.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique short code")
	// ErrEmptyURL is returned when the original URL is blank.
	ErrEmptyURL = errors.New("original url must not be empty")
)

// Code represents a short URL code.
type Code string

// ShortURL represents a shortened URL entity.
type ShortURL struct {
	ID          int64     `json:"id"`
	Code        Code      `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}
