package cache

import (
	"context"
	"time"

	"github.com/verdantpress/blogapi/internal/models"
)

// AuthorCache is the bounded-TTL cache in front of the author store.
// Author profiles change rarely relative to article reads, so a short
// TTL keeps reads cheap without an invalidation protocol.
type AuthorCache interface {
	GetAuthor(ctx context.Context, email string) (*models.Author, bool, error)
	SetAuthor(ctx context.Context, email string, author *models.Author, ttl time.Duration) error
	InvalidateAuthor(ctx context.Context, email string) error
	Close() error
}
