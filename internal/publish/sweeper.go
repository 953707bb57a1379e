package publish

import (
	"context"
	"time"

	"github.com/verdantpress/blogapi/internal/lifecycle"
	"github.com/verdantpress/blogapi/internal/logger"
	"github.com/verdantpress/blogapi/internal/models"
)

// ArticleLister is the read surface the sweeper scans.
type ArticleLister interface {
	ListArticles(ctx context.Context) ([]*models.Article, error)
	UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error)
}

// Sweeper promotes scheduled articles to published once their schedule
// date arrives. It runs as an in-process periodic sweep; missing a tick
// only delays visibility until the next one.
type Sweeper struct {
	articles ArticleLister
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(articles ArticleLister, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		articles: articles,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err != nil {
				logger.Get().Error().Err(err).Msg("scheduled-publish sweep failed")
			} else if n > 0 {
				logger.Get().Info().Int("published", n).Msg("scheduled-publish sweep promoted articles")
			}
		}
	}
}

// SweepOnce publishes every due scheduled article and returns how many
// were promoted.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	articles, err := s.articles.ListArticles(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	promoted := 0
	for _, a := range articles {
		if !lifecycle.Due(a, now) {
			continue
		}
		if err := lifecycle.ApplyTransition(a, models.StatusPublished); err != nil {
			logger.Get().Warn().Err(err).Str("id", a.ID).Msg("due article cannot be published")
			continue
		}
		status := models.StatusPublished
		if _, err := s.articles.UpdateArticle(ctx, a.ID, models.ArticlePatch{Status: &status}); err != nil {
			logger.Get().Error().Err(err).Str("id", a.ID).Msg("failed to persist sweep publish")
			continue
		}
		promoted++
	}
	return promoted, nil
}
