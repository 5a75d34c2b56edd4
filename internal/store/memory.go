package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/users"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	urls   map[shortener.Code]shortener.ShortURL
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls: make(map[shortener.Code]shortener.ShortURL),
	}
}

func (m *MemoryStore) Create(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.urls[shortURL.Code]; taken {
		return shortener.ErrDuplicateCode
	}

	m.nextID++
	shortURL.ID = m.nextID
	m.urls[shortURL.Code] = *shortURL

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &url, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, ownerID int64) ([]*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*shortener.ShortURL, 0)

	for _, url := range m.urls {
		if url.OwnerID == ownerID {
			result = append(result, &url)
		}
	}

	slices.SortFunc(result, func(a, b *shortener.ShortURL) int {
		return cmp.Compare(b.ID, a.ID)
	})

	return result, nil
}

func (m *MemoryStore) Exists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.urls[code]

	return ok, nil
}

// MemoryUserStore is an in-memory implementation of users.Repository.
type MemoryUserStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]users.User
	byEmail map[string]int64
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[int64]users.User),
		byEmail: make(map[string]int64),
	}
}

func (m *MemoryUserStore) Create(_ context.Context, user *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[user.Email]; taken {
		return users.ErrEmailTaken
	}

	m.nextID++
	user.ID = m.nextID
	m.byID[user.ID] = *user
	m.byEmail[user.Email] = user.ID

	return nil
}

func (m *MemoryUserStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}

	return &user, nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}

	user := m.byID[id]

	return &user, nil
}
