package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/users"
)

const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO urls (original_url, short_code, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		shortURL.OriginalURL,
		string(shortURL.Code),
		shortURL.OwnerID,
		shortURL.CreatedAt,
	).Scan(&shortURL.ID)
	if isUniqueViolation(err) {
		return shortener.ErrDuplicateCode
	}

	return err
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT id, short_code, original_url, user_id, created_at
		FROM urls
		WHERE short_code = $1
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&url.ID,
		&url.Code,
		&url.OriginalURL,
		&url.OwnerID,
		&url.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &url, nil
}

func (p *PostgresStore) ListByOwner(ctx context.Context, ownerID int64) ([]*shortener.ShortURL, error) {
	query := `
		SELECT id, short_code, original_url, user_id, created_at
		FROM urls
		WHERE user_id = $1
		ORDER BY id DESC
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*shortener.ShortURL, error) {
		var url shortener.ShortURL

		err := row.Scan(&url.ID, &url.Code, &url.OriginalURL, &url.OwnerID, &url.CreatedAt)

		return &url, err
	})
}

func (p *PostgresStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM urls WHERE short_code = $1)`, string(code),
	).Scan(&exists)

	return exists, err
}

// PostgresUserStore is a PostgreSQL implementation of users.Repository.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a new PostgreSQL-backed user store.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (p *PostgresUserStore) Create(ctx context.Context, user *users.User) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (email, password, created_at) VALUES ($1, $2, $3) RETURNING id`,
		user.Email, user.PasswordHash, user.CreatedAt,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return users.ErrEmailTaken
	}

	return err
}

func (p *PostgresUserStore) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return p.getOne(ctx, `SELECT id, email, password, created_at FROM users WHERE id = $1`, id)
}

func (p *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return p.getOne(ctx, `SELECT id, email, password, created_at FROM users WHERE email = $1`, email)
}

func (p *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*users.User, error) {
	var user users.User

	err := p.pool.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
