package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verdantpress/blogapi/internal/models"
)

const authorColumns = `id, email, display_name, avatar_url, bio, location, website, social_links`

// GetAuthorByEmail resolves an author by the email supplied by the
// identity collaborator. Email matching is case-insensitive.
func (s *Store) GetAuthorByEmail(ctx context.Context, email string) (*models.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE email = ? COLLATE NOCASE`,
		strings.TrimSpace(email))
	a, err := scanAuthor(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: author %s", ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read author: %w", err)
	}
	return a, nil
}

// GetAuthorByID returns the author with the given id.
func (s *Store) GetAuthorByID(ctx context.Context, id string) (*models.Author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = ?`, id)
	a, err := scanAuthor(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: author %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read author: %w", err)
	}
	return a, nil
}

// UpsertAuthor creates or replaces an author record. This is the
// boundary the external identity-provisioning flow writes through; the
// pipeline itself never mutates authors.
func (s *Store) UpsertAuthor(ctx context.Context, a *models.Author) (*models.Author, error) {
	if a.Email == "" {
		return nil, fmt.Errorf("%w: email", ErrInvalidAuthor)
	}
	stored := *a
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	links, err := json.Marshal(stored.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal social links: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO authors (`+authorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			display_name = excluded.display_name,
			avatar_url = excluded.avatar_url,
			bio = excluded.bio,
			location = excluded.location,
			website = excluded.website,
			social_links = excluded.social_links`,
		stored.ID, strings.TrimSpace(stored.Email), stored.DisplayName, stored.AvatarURL,
		stored.Bio, stored.Location, stored.Website, string(links),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert author: %w", err)
	}
	// The insert may have hit the conflict branch; read back the row so
	// the caller sees the surviving id.
	return s.GetAuthorByEmail(ctx, stored.Email)
}

func scanAuthor(row rowScanner) (*models.Author, error) {
	var a models.Author
	var links string
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.AvatarURL, &a.Bio,
		&a.Location, &a.Website, &links)
	if err != nil {
		return nil, err
	}
	if links != "" && links != "{}" && links != "null" {
		if err := json.Unmarshal([]byte(links), &a.SocialLinks); err != nil {
			return nil, fmt.Errorf("bad social_links: %w", err)
		}
	}
	return &a, nil
}
