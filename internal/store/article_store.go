package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdantpress/blogapi/internal/models"
)

const articleColumns = `id, author_id, title, description, content, category,
	image_url, image_handle, status, schedule_date, created_at, updated_at`

// CreateArticle validates and persists a new article, assigning its id
// and timestamps. The author reference is checked inside the same
// transaction as the insert.
func (s *Store) CreateArticle(ctx context.Context, a *models.Article) (*models.Article, error) {
	if missing := missingArticleFields(a); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArticle, strings.Join(missing, ", "))
	}
	if !models.IsValidStatus(a.Status) {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidArticle, a.Status)
	}

	now := time.Now().UTC()
	stored := *a
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM authors WHERE id = ?`, stored.AuthorID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check author reference: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: author %s", ErrBadReference, stored.AuthorID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.AuthorID, stored.Title, stored.Description, stored.Content,
		stored.Category, stored.ImageURL, stored.ImageHandle, string(stored.Status),
		stored.ScheduleDate.UTC().Format(time.RFC3339Nano),
		stored.CreatedAt.Format(time.RFC3339Nano),
		stored.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit article: %w", err)
	}
	return &stored, nil
}

// GetArticle returns the article with the given id.
func (s *Store) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: article %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read article: %w", err)
	}
	return a, nil
}

// ListArticles returns every article. Ordering is the query engine's
// responsibility, not this layer's.
func (s *Store) ListArticles(ctx context.Context) ([]*models.Article, error) {
	return s.listWhere(ctx, ``, nil)
}

// ListArticlesByAuthor returns every article owned by authorID.
func (s *Store) ListArticlesByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	return s.listWhere(ctx, ` WHERE author_id = ?`, []any{authorID})
}

func (s *Store) listWhere(ctx context.Context, where string, args []any) ([]*models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}
	return articles, nil
}

// UpdateArticle applies the non-nil fields of patch to the article with
// the given id and returns the updated record. Last write wins for
// concurrent updates on the same id.
func (s *Store) UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.ImageHandle != nil {
		add("image_handle", *patch.ImageHandle)
	}
	if patch.Status != nil {
		if !models.IsValidStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: status %q", ErrInvalidArticle, *patch.Status)
		}
		add("status", string(*patch.Status))
	}
	add("updated_at", time.Now().UTC().Format(time.RFC3339Nano))
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE articles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: article %s", ErrNotFound, id)
	}
	return s.GetArticle(ctx, id)
}

// DeleteArticle removes the article with the given id.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: article %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var status, scheduleDate, createdAt, updatedAt string
	err := row.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Description, &a.Content,
		&a.Category, &a.ImageURL, &a.ImageHandle, &status, &scheduleDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = models.Status(status)
	if a.ScheduleDate, err = time.Parse(time.RFC3339Nano, scheduleDate); err != nil {
		return nil, fmt.Errorf("bad schedule_date %q: %w", scheduleDate, err)
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updatedAt, err)
	}
	return &a, nil
}

func missingArticleFields(a *models.Article) []string {
	var missing []string
	if a.AuthorID == "" {
		missing = append(missing, "author_id")
	}
	if a.Title == "" {
		missing = append(missing, "title")
	}
	if a.Description == "" {
		missing = append(missing, "description")
	}
	if a.Content == "" {
		missing = append(missing, "content")
	}
	if a.Category == "" {
		missing = append(missing, "category")
	}
	if a.ImageURL == "" {
		missing = append(missing, "image_url")
	}
	if a.ScheduleDate.IsZero() {
		missing = append(missing, "schedule_date")
	}
	// image_url and image_handle travel together; a blob reference with
	// only one half present is a bug upstream.
	if (a.ImageURL == "") != (a.ImageHandle == "") {
		missing = append(missing, "image_handle")
	}
	return missing
}
