package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verdantpress/blogapi/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedAuthor(t *testing.T, s *Store, email string) *models.Author {
	t.Helper()
	author, err := s.UpsertAuthor(context.Background(), &models.Author{
		Email:       email,
		DisplayName: "Test Author",
		SocialLinks: map[string]string{"github": "https://github.com/test"},
	})
	if err != nil {
		t.Fatalf("UpsertAuthor: %v", err)
	}
	return author
}

func testArticle(authorID string) *models.Article {
	return &models.Article{
		AuthorID:     authorID,
		Title:        "Late blight warning signs",
		Description:  "Dark lesions on tomato stems",
		Content:      "Late blight moves through a planting in days.",
		Category:     "Fungal",
		ImageURL:     "https://blobs.test/blogs/x.jpg",
		ImageHandle:  "blogs/x.jpg",
		Status:       models.StatusDraft,
		ScheduleDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAndGetArticle(t *testing.T) {
	s := setupTestStore(t)
	author := seedAuthor(t, s, "maya@example.com")

	created, err := s.CreateArticle(context.Background(), testArticle(author.ID))
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created article has no id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not assigned")
	}

	got, err := s.GetArticle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if got.Title != created.Title || got.Category != "Fungal" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.ScheduleDate.Equal(created.ScheduleDate) {
		t.Errorf("schedule date = %v, want %v", got.ScheduleDate, created.ScheduleDate)
	}
	if got.Status != models.StatusDraft {
		t.Errorf("status = %s", got.Status)
	}
}

func TestCreateArticleMissingFields(t *testing.T) {
	s := setupTestStore(t)
	author := seedAuthor(t, s, "maya@example.com")

	a := testArticle(author.ID)
	a.Title = ""
	a.Description = ""
	_, err := s.CreateArticle(context.Background(), a)
	if !errors.Is(err, ErrInvalidArticle) {
		t.Fatalf("expected ErrInvalidArticle, got %v", err)
	}
}

func TestCreateArticleUnknownAuthor(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateArticle(context.Background(), testArticle("no-such-author"))
	if !errors.Is(err, ErrBadReference) {
		t.Fatalf("expected ErrBadReference, got %v", err)
	}

	all, err := s.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("rejected create left %d rows behind", len(all))
	}
}

func TestCreateArticleRejectsUnknownStatus(t *testing.T) {
	s := setupTestStore(t)
	author := seedAuthor(t, s, "maya@example.com")

	a := testArticle(author.ID)
	a.Status = "archived"
	if _, err := s.CreateArticle(context.Background(), a); !errors.Is(err, ErrInvalidArticle) {
		t.Fatalf("expected ErrInvalidArticle, got %v", err)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetArticle(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListArticlesByAuthor(t *testing.T) {
	s := setupTestStore(t)
	maya := seedAuthor(t, s, "maya@example.com")
	ivan := seedAuthor(t, s, "ivan@example.com")

	for i := 0; i < 3; i++ {
		if _, err := s.CreateArticle(context.Background(), testArticle(maya.ID)); err != nil {
			t.Fatalf("CreateArticle: %v", err)
		}
	}
	if _, err := s.CreateArticle(context.Background(), testArticle(ivan.ID)); err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	mine, err := s.ListArticlesByAuthor(context.Background(), maya.ID)
	if err != nil {
		t.Fatalf("ListArticlesByAuthor: %v", err)
	}
	if len(mine) != 3 {
		t.Errorf("got %d articles for maya, want 3", len(mine))
	}

	all, err := s.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("got %d articles total, want 4", len(all))
	}
}

func TestUpdateArticle(t *testing.T) {
	s := setupTestStore(t)
	author := seedAuthor(t, s, "maya@example.com")

	created, err := s.CreateArticle(context.Background(), testArticle(author.ID))
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	title := "Late blight, revisited"
	status := models.StatusPublished
	updated, err := s.UpdateArticle(context.Background(), created.ID, models.ArticlePatch{
		Title:  &title,
		Status: &status,
	})
	if err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}
	if updated.Title != title {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Status != models.StatusPublished {
		t.Errorf("status = %s", updated.Status)
	}
	if updated.Description != created.Description {
		t.Error("untouched field changed")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updated_at not bumped")
	}
}

func TestUpdateArticleNotFound(t *testing.T) {
	s := setupTestStore(t)

	title := "x"
	_, err := s.UpdateArticle(context.Background(), "missing", models.ArticlePatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteArticle(t *testing.T) {
	s := setupTestStore(t)
	author := seedAuthor(t, s, "maya@example.com")

	created, err := s.CreateArticle(context.Background(), testArticle(author.ID))
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if err := s.DeleteArticle(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}
	if _, err := s.GetArticle(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted article still readable: %v", err)
	}

	if err := s.DeleteArticle(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestAuthorLookup(t *testing.T) {
	s := setupTestStore(t)
	author := seedAuthor(t, s, "Maya@Example.com")

	byEmail, err := s.GetAuthorByEmail(context.Background(), "maya@example.com")
	if err != nil {
		t.Fatalf("GetAuthorByEmail: %v", err)
	}
	if byEmail.ID != author.ID {
		t.Errorf("email lookup returned %s, want %s", byEmail.ID, author.ID)
	}
	if byEmail.SocialLinks["github"] == "" {
		t.Error("social links did not round-trip")
	}

	byID, err := s.GetAuthorByID(context.Background(), author.ID)
	if err != nil {
		t.Fatalf("GetAuthorByID: %v", err)
	}
	if byID.Email != author.Email {
		t.Errorf("id lookup email = %s", byID.Email)
	}

	if _, err := s.GetAuthorByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertAuthorKeepsID(t *testing.T) {
	s := setupTestStore(t)
	first := seedAuthor(t, s, "maya@example.com")

	second, err := s.UpsertAuthor(context.Background(), &models.Author{
		Email:       "maya@example.com",
		DisplayName: "Maya G.",
	})
	if err != nil {
		t.Fatalf("UpsertAuthor: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed id: %s -> %s", first.ID, second.ID)
	}
	if second.DisplayName != "Maya G." {
		t.Errorf("display name = %q", second.DisplayName)
	}
}
