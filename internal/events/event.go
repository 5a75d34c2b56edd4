// Package events defines the domain events published by the service and the
// handlers that consume them.
package events

import (
	"time"

	"github.com/serroba/shortlinks/internal/shortener"
)

// TopicURLCreated is published after a short URL has been stored.
const TopicURLCreated = "url.created"

// URLCreatedEvent describes a newly stored short URL.
type URLCreatedEvent struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	OriginalURL string    `json:"original_url"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	ClientIP    string    `json:"client_ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
}

// NewURLCreatedEvent builds the event for a stored record.
func NewURLCreatedEvent(u *shortener.ShortURL, clientIP, userAgent string) *URLCreatedEvent {
	return &URLCreatedEvent{
		ID:          u.ID,
		Code:        string(u.Code),
		OriginalURL: u.OriginalURL,
		OwnerID:     u.OwnerID,
		CreatedAt:   u.CreatedAt,
		ClientIP:    clientIP,
		UserAgent:   userAgent,
	}
}

// ShortURL returns the record carried by the event.
func (e *URLCreatedEvent) ShortURL() *shortener.ShortURL {
	return &shortener.ShortURL{
		ID:          e.ID,
		Code:        shortener.Code(e.Code),
		OriginalURL: e.OriginalURL,
		OwnerID:     e.OwnerID,
		CreatedAt:   e.CreatedAt,
	}
}
