package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/verdantpress/blogapi/internal/models"
)

// MockAuthorCache provides an in-memory implementation for testing when
// Redis is not available. TTLs are honored against the wall clock.
type MockAuthorCache struct {
	mu     sync.Mutex
	data   map[string]entry
	Hits   int
	Misses int
}

type entry struct {
	author  models.Author
	expires time.Time
}

func NewMockAuthorCache() *MockAuthorCache {
	return &MockAuthorCache{data: make(map[string]entry)}
}

func (m *MockAuthorCache) Close() error {
	return nil
}

// mockKey mirrors the keying rule of the Redis client: the store treats
// emails case-insensitively, so the cache must too.
func mockKey(email string) string {
	return strings.ToLower(email)
}

func (m *MockAuthorCache) GetAuthor(ctx context.Context, email string) (*models.Author, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := mockKey(email)
	e, ok := m.data[key]
	if !ok || time.Now().After(e.expires) {
		delete(m.data, key)
		m.Misses++
		return nil, false, nil
	}
	m.Hits++
	author := e.author
	return &author, true, nil
}

func (m *MockAuthorCache) SetAuthor(ctx context.Context, email string, author *models.Author, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[mockKey(email)] = entry{author: *author, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MockAuthorCache) InvalidateAuthor(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, mockKey(email))
	return nil
}
