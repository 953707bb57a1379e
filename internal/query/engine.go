// Package query serves filtered, sorted article reads. The corpus is
// small enough to filter in memory over the full set; the store only
// provides the raw rows.
package query

import (
	"context"
	"sort"
	"strings"

	"github.com/verdantpress/blogapi/internal/logger"
	"github.com/verdantpress/blogapi/internal/models"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// ArticleReader is the store surface the engine reads from.
type ArticleReader interface {
	ListArticles(ctx context.Context) ([]*models.Article, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	ListArticlesByAuthor(ctx context.Context, authorID string) ([]*models.Article, error)
}

// AuthorReader enriches results with author summaries.
type AuthorReader interface {
	ResolveByID(ctx context.Context, id string) (*models.Author, error)
}

// Filter narrows a listing. Zero values mean "no filtering" for every
// field; an empty result is a normal outcome, not an error.
type Filter struct {
	Category   string
	SearchText string
	AuthorID   string
}

// Engine answers list and detail reads.
type Engine struct {
	articles ArticleReader
	authors  AuthorReader
}

func NewEngine(articles ArticleReader, authors AuthorReader) *Engine {
	return &Engine{articles: articles, authors: authors}
}

// Query returns articles matching the filter, newest first.
func (e *Engine) Query(ctx context.Context, f Filter) ([]models.ArticleView, error) {
	var articles []*models.Article
	var err error
	if f.AuthorID != "" {
		articles, err = e.articles.ListArticlesByAuthor(ctx, f.AuthorID)
	} else {
		articles, err = e.articles.ListArticles(ctx)
	}
	if err != nil {
		return nil, err
	}

	matched := articles[:0:0]
	for _, a := range articles {
		if matchCategory(a, f.Category) && matchSearch(a, f.SearchText) {
			matched = append(matched, a)
		}
	}

	sortNewestFirst(matched)
	return e.enrich(ctx, matched)
}

// Get returns a single article with its author summary.
func (e *Engine) Get(ctx context.Context, id string) (*models.ArticleView, error) {
	a, err := e.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := e.enrich(ctx, []*models.Article{a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DistinctCategories returns every category present across all articles,
// trimmed, with empty values dropped and duplicates collapsed
// case-insensitively (first-seen casing wins).
func (e *Engine) DistinctCategories(ctx context.Context) ([]string, error) {
	articles, err := e.articles.ListArticles(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var categories []string
	for _, a := range articles {
		c := strings.TrimSpace(a.Category)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func matchCategory(a *models.Article, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return true
	}
	return a.Category == category
}

func matchSearch(a *models.Article, text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	haystack := strings.ToLower(a.Title + " " + a.Description + " " + a.Content)
	return strings.Contains(haystack, text)
}

// sortNewestFirst orders by creation time descending, falling back to id
// so equal timestamps sort stably.
func sortNewestFirst(articles []*models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID < articles[j].ID
	})
}

// enrich attaches author summaries, fetching each distinct author once.
// A missing author profile leaves the summary empty rather than failing
// the read.
func (e *Engine) enrich(ctx context.Context, articles []*models.Article) ([]models.ArticleView, error) {
	summaries := make(map[string]models.AuthorSummary)
	views := make([]models.ArticleView, 0, len(articles))
	for _, a := range articles {
		summary, ok := summaries[a.AuthorID]
		if !ok {
			author, err := e.authors.ResolveByID(ctx, a.AuthorID)
			if err != nil {
				logger.Get().Warn().Err(err).Str("author_id", a.AuthorID).Msg("author missing during read enrichment")
				summary = models.AuthorSummary{ID: a.AuthorID}
			} else {
				summary = author.Summary()
			}
			summaries[a.AuthorID] = summary
		}
		views = append(views, models.ArticleView{Article: *a, Author: summary})
	}
	return views, nil
}
