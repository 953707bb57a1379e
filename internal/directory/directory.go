// Package directory resolves author identities to their profile records.
// Reads go through a bounded-TTL cache; profile data changes rarely
// relative to article reads, so a stale window is acceptable.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/verdantpress/blogapi/internal/cache"
	"github.com/verdantpress/blogapi/internal/logger"
	"github.com/verdantpress/blogapi/internal/models"
	"github.com/verdantpress/blogapi/internal/store"
)

// ErrAuthorNotFound is returned when no author record exists for the
// given identity.
var ErrAuthorNotFound = errors.New("author not found")

// Directory resolves author identities against the author store, with a
// cache in front of the email lookup on the hot publish path.
type Directory struct {
	store *store.Store
	cache cache.AuthorCache
	ttl   time.Duration
}

func New(s *store.Store, c cache.AuthorCache, ttl time.Duration) *Directory {
	return &Directory{store: s, cache: c, ttl: ttl}
}

// ResolveByEmail returns the author owning the given email.
func (d *Directory) ResolveByEmail(ctx context.Context, email string) (*models.Author, error) {
	if d.cache != nil {
		author, ok, err := d.cache.GetAuthor(ctx, email)
		if err != nil {
			// A broken cache must not take down author resolution.
			logger.Get().Warn().Err(err).Msg("author cache read failed, falling back to store")
		} else if ok {
			return author, nil
		}
	}

	author, err := d.store.GetAuthorByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAuthorNotFound
	}
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if err := d.cache.SetAuthor(ctx, email, author, d.ttl); err != nil {
			logger.Get().Warn().Err(err).Msg("author cache write failed")
		}
	}
	return author, nil
}

// ResolveByID returns the author with the given id. ID lookups are rare
// (read enrichment already holds the id) and skip the cache.
func (d *Directory) ResolveByID(ctx context.Context, id string) (*models.Author, error) {
	author, err := d.store.GetAuthorByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAuthorNotFound
	}
	return author, err
}

// Provision writes an author record through to the store and drops any
// cached copy. Called only from the admin surface on behalf of the
// external identity flow.
func (d *Directory) Provision(ctx context.Context, author *models.Author) (*models.Author, error) {
	stored, err := d.store.UpsertAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		if err := d.cache.InvalidateAuthor(ctx, stored.Email); err != nil {
			logger.Get().Warn().Err(err).Msg("author cache invalidation failed")
		}
	}
	return stored, nil
}
