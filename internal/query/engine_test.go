package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/verdantpress/blogapi/internal/models"
	"github.com/verdantpress/blogapi/internal/store"
)

type fakeReader struct {
	articles []*models.Article
	authors  map[string]*models.Author
}

func (f *fakeReader) ListArticles(ctx context.Context) ([]*models.Article, error) {
	return f.articles, nil
}

func (f *fakeReader) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: article %s", store.ErrNotFound, id)
}

func (f *fakeReader) ListArticlesByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	var out []*models.Article
	for _, a := range f.articles {
		if a.AuthorID == authorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeReader) ResolveByID(ctx context.Context, id string) (*models.Author, error) {
	a, ok := f.authors[id]
	if !ok {
		return nil, errors.New("author not found")
	}
	return a, nil
}

func seededEngine() (*Engine, *fakeReader) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mk := func(id, author, title, desc, content, category string, age time.Duration) *models.Article {
		return &models.Article{
			ID:          id,
			AuthorID:    author,
			Title:       title,
			Description: desc,
			Content:     content,
			Category:    category,
			ImageURL:    "https://blobs.test/blogs/" + id + ".jpg",
			ImageHandle: "blogs/" + id + ".jpg",
			Status:      models.StatusPublished,
			CreatedAt:   base.Add(-age),
			UpdatedAt:   base.Add(-age),
		}
	}

	reader := &fakeReader{
		articles: []*models.Article{
			mk("a1", "u1", "Wheat rust season", "Spotting stripe rust", "Stripe rust spreads fast in cool, wet springs.", "Fungal", 1*time.Hour),
			mk("a2", "u1", "Powdery mildew basics", "White coating on leaves", "Mildew thrives in shade and still air.", "Fungal", 2*time.Hour),
			mk("a3", "u2", "Aphid outbreaks", "Sticky leaves and ants", "Check the undersides of young leaves.", "Pests", 3*time.Hour),
			mk("a4", "u2", "Nitrogen deficiency", "Yellowing from the bottom up", "Older leaves fade first.", "Nutrition", 4*time.Hour),
			mk("a5", "u1", "Drip irrigation on a budget", "Cheap emitters compared", "A weekend build for raised beds.", "Tech", 5*time.Hour),
		},
		authors: map[string]*models.Author{
			"u1": {ID: "u1", Email: "maya@example.com", DisplayName: "Maya", AvatarURL: "https://blobs.test/avatars/u1.png"},
			"u2": {ID: "u2", Email: "ivan@example.com", DisplayName: "Ivan"},
		},
	}
	return NewEngine(reader, reader), reader
}

func ids(views []models.ArticleView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestQueryAllEqualsUnfiltered(t *testing.T) {
	e, _ := seededEngine()

	all, err := e.Query(context.Background(), Filter{Category: "all"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	unfiltered, err := e.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != len(unfiltered) || len(all) != 5 {
		t.Errorf("category=all returned %d, unfiltered %d, want 5", len(all), len(unfiltered))
	}
}

func TestQuerySortsNewestFirst(t *testing.T) {
	e, _ := seededEngine()

	views, err := e.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := ids(views)
	want := []string{"a1", "a2", "a3", "a4", "a5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestQueryTiebreakOnID(t *testing.T) {
	e, reader := seededEngine()
	// Give two articles identical timestamps; ordering must stay stable
	// by id.
	reader.articles[0].CreatedAt = reader.articles[1].CreatedAt

	views, err := e.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := ids(views)
	if got[0] != "a1" || got[1] != "a2" {
		t.Errorf("tiebreak order = %v", got)
	}
}

func TestQueryCategoryAndSearch(t *testing.T) {
	e, _ := seededEngine()

	views, err := e.Query(context.Background(), Filter{Category: "Fungal", SearchText: "rust"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(views) != 1 || views[0].ID != "a1" {
		t.Errorf("got %v, want exactly a1", ids(views))
	}
}

func TestQuerySearchIsCaseInsensitive(t *testing.T) {
	e, _ := seededEngine()

	upper, err := e.Query(context.Background(), Filter{SearchText: "RUST"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	lower, err := e.Query(context.Background(), Filter{SearchText: "rust"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(upper) != len(lower) || len(upper) != 1 {
		t.Errorf("case sensitivity leak: upper=%d lower=%d", len(upper), len(lower))
	}
}

func TestQueryEmptySearchIsNoOp(t *testing.T) {
	e, _ := seededEngine()

	views, err := e.Query(context.Background(), Filter{SearchText: ""})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(views) != 5 {
		t.Errorf("empty search returned %d, want 5", len(views))
	}
}

func TestQueryNoMatchesIsNotAnError(t *testing.T) {
	e, _ := seededEngine()

	views, err := e.Query(context.Background(), Filter{SearchText: "zzyzx"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("got %d results for nonsense search", len(views))
	}
}

func TestQueryByAuthor(t *testing.T) {
	e, _ := seededEngine()

	views, err := e.Query(context.Background(), Filter{AuthorID: "u2"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d articles for u2, want 2", len(views))
	}
	for _, v := range views {
		if v.AuthorID != "u2" {
			t.Errorf("foreign article %s in author listing", v.ID)
		}
	}
}

func TestQueryEnrichesAuthorSummary(t *testing.T) {
	e, _ := seededEngine()

	views, err := e.Query(context.Background(), Filter{Category: "Pests"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d, want 1", len(views))
	}
	if views[0].Author.DisplayName != "Ivan" {
		t.Errorf("author summary = %+v", views[0].Author)
	}
}

func TestGetUnknownID(t *testing.T) {
	e, _ := seededEngine()

	_, err := e.Get(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDistinctCategories(t *testing.T) {
	e, reader := seededEngine()
	// Raw data noise: whitespace, duplicate casing, empty values.
	reader.articles = append(reader.articles,
		&models.Article{ID: "a6", AuthorID: "u1", Category: "  "},
		&models.Article{ID: "a7", AuthorID: "u1", Category: "fungal"},
		&models.Article{ID: "a8", AuthorID: "u1", Category: " Tech "},
	)

	categories, err := e.DistinctCategories(context.Background())
	if err != nil {
		t.Fatalf("DistinctCategories: %v", err)
	}

	want := []string{"Fungal", "Nutrition", "Pests", "Tech"}
	if len(categories) != len(want) {
		t.Fatalf("categories = %v, want %v", categories, want)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("categories = %v, want %v", categories, want)
			break
		}
	}
	for _, c := range categories {
		if c == "" {
			t.Error("empty category survived")
		}
	}
}
