package shortener

import "context"

// Repository is the authoritative store for short URL records.
type Repository interface {
	// Create persists shortURL and assigns its ID.
	// Returns ErrDuplicateCode when the code violates the uniqueness constraint.
	Create(ctx context.Context, shortURL *ShortURL) error

	// GetByCode returns ErrNotFound if no record holds the code.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)

	// ListByOwner returns the owner's records, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*ShortURL, error)

	Exists(ctx context.Context, code Code) (bool, error)
}
