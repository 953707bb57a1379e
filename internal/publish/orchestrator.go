// Package publish coordinates the write path: it validates a submission,
// uploads the image asset, persists the article record, and undoes the
// upload when persistence fails so the two stores never disagree.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/verdantpress/blogapi/internal/blob"
	"github.com/verdantpress/blogapi/internal/directory"
	"github.com/verdantpress/blogapi/internal/lifecycle"
	"github.com/verdantpress/blogapi/internal/logger"
	"github.com/verdantpress/blogapi/internal/models"
	"github.com/verdantpress/blogapi/internal/store"
)

// ArticleStore is the slice of the metadata store the orchestrator
// writes through.
type ArticleStore interface {
	CreateArticle(ctx context.Context, a *models.Article) (*models.Article, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string) error
}

// AuthorResolver resolves the authenticated principal's email to an
// author record.
type AuthorResolver interface {
	ResolveByEmail(ctx context.Context, email string) (*models.Author, error)
}

// Options tunes the orchestrator's I/O behavior.
type Options struct {
	// UploadTimeout bounds the blob store call. On timeout nothing was
	// durably stored, so no compensation is attempted.
	UploadTimeout time.Duration

	// ImageFolder is the folder hint passed to the blob store.
	ImageFolder string
}

// Orchestrator is the single entry point for creating, updating, and
// deleting articles. Articles are never written to the store directly.
type Orchestrator struct {
	articles ArticleStore
	authors  AuthorResolver
	blobs    blob.Store
	fetcher  *ImageFetcher
	validate *validator.Validate
	opts     Options
}

func NewOrchestrator(articles ArticleStore, authors AuthorResolver, blobs blob.Store, opts Options) *Orchestrator {
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 2 * time.Minute
	}
	if opts.ImageFolder == "" {
		opts.ImageFolder = "blogs"
	}
	return &Orchestrator{
		articles: articles,
		authors:  authors,
		blobs:    blobs,
		fetcher:  NewImageFetcher(),
		validate: validator.New(),
		opts:     opts,
	}
}

// Publish runs the full ingestion pipeline for a new article.
func (o *Orchestrator) Publish(ctx context.Context, sub *models.Submission) (*models.Article, error) {
	if err := o.validateSubmission(sub); err != nil {
		return nil, err
	}

	// Resolve the author before touching the blob store so a bad
	// identity never costs a remote write.
	author, err := o.authors.ResolveByEmail(ctx, sub.AuthorEmail)
	if err != nil {
		return nil, err
	}

	status, err := lifecycle.Initial(sub.Status, sub.ScheduleDate, time.Now())
	if err != nil {
		return nil, err
	}

	stored, err := o.storeImage(ctx, sub)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		AuthorID:     author.ID,
		Title:        strings.TrimSpace(sub.Title),
		Description:  strings.TrimSpace(sub.Description),
		Content:      sub.Content,
		Category:     strings.TrimSpace(sub.EffectiveCategory()),
		ImageURL:     stored.URL,
		ImageHandle:  stored.Handle,
		Status:       status,
		ScheduleDate: sub.ScheduleDate,
	}

	created, err := o.articles.CreateArticle(ctx, article)
	if err != nil {
		o.compensate(ctx, stored.Handle)
		if errors.Is(err, store.ErrBadReference) {
			return nil, directory.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return created, nil
}

// Update applies an edit to an owned article. A replacement image is
// uploaded before the record is touched; the old blob is released only
// after the new record is durable.
func (o *Orchestrator) Update(ctx context.Context, id string, sub *models.Submission) (*models.Article, error) {
	author, err := o.authors.ResolveByEmail(ctx, sub.AuthorEmail)
	if err != nil {
		return nil, err
	}
	current, err := o.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != author.ID {
		return nil, ErrNotOwner
	}
	if err := o.validateUpdate(sub); err != nil {
		return nil, err
	}

	patch := models.ArticlePatch{}
	if sub.Title != "" {
		title := strings.TrimSpace(sub.Title)
		patch.Title = &title
	}
	if sub.Description != "" {
		desc := strings.TrimSpace(sub.Description)
		patch.Description = &desc
	}
	if sub.Content != "" {
		patch.Content = &sub.Content
	}
	if sub.Category != "" {
		category := strings.TrimSpace(sub.EffectiveCategory())
		patch.Category = &category
	}
	if sub.Status != "" && sub.Status != current.Status {
		requested := sub.Status
		if err := lifecycle.ApplyTransition(current, requested); err != nil {
			return nil, err
		}
		patch.Status = &requested
	}

	var replacement *blob.Stored
	if sub.HasImage() {
		stored, err := o.storeImage(ctx, sub)
		if err != nil {
			return nil, err
		}
		replacement = &stored
		patch.ImageURL = &stored.URL
		patch.ImageHandle = &stored.Handle
	}

	updated, err := o.articles.UpdateArticle(ctx, id, patch)
	if err != nil {
		if replacement != nil {
			o.compensate(ctx, replacement.Handle)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// The record now points at the replacement; the old asset is a
	// space leak at worst, so failure here is only logged.
	if replacement != nil && current.ImageHandle != "" {
		if err := o.blobs.Delete(ctx, current.ImageHandle); err != nil {
			logger.Get().Warn().Err(err).Str("handle", current.ImageHandle).Msg("failed to release replaced image")
		}
	}
	return updated, nil
}

// Delete removes an owned article and releases its image asset.
func (o *Orchestrator) Delete(ctx context.Context, id, authorEmail string) error {
	author, err := o.authors.ResolveByEmail(ctx, authorEmail)
	if err != nil {
		return err
	}
	current, err := o.articles.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if current.AuthorID != author.ID {
		return ErrNotOwner
	}

	if err := o.articles.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if current.ImageHandle != "" {
		if err := o.blobs.Delete(ctx, current.ImageHandle); err != nil {
			logger.Get().Warn().Err(err).Str("handle", current.ImageHandle).Msg("failed to release image of deleted article")
		}
	}
	return nil
}

// storeImage resolves the submission's image source to bytes and uploads
// them under a bounded timeout. On timeout nothing was durably stored,
// so the caller must not compensate.
func (o *Orchestrator) storeImage(ctx context.Context, sub *models.Submission) (blob.Stored, error) {
	data := sub.ImageData
	mimeType := sub.ImageMime
	if len(data) == 0 && sub.ImageURL != "" {
		fetched, fetchedMime, err := o.fetcher.Fetch(ctx, sub.ImageURL)
		if err != nil {
			return blob.Stored{}, fmt.Errorf("%w: %v", ErrImageUploadFailed, err)
		}
		data = fetched
		if mimeType == "" {
			mimeType = fetchedMime
		}
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	uploadCtx, cancel := context.WithTimeout(ctx, o.opts.UploadTimeout)
	defer cancel()

	stored, err := o.blobs.Store(uploadCtx, data, mimeType, o.opts.ImageFolder)
	if err != nil {
		if errors.Is(err, blob.ErrPayloadTooLarge) {
			return blob.Stored{}, err
		}
		return blob.Stored{}, fmt.Errorf("%w: %v", ErrImageUploadFailed, err)
	}
	return stored, nil
}

// compensate deletes an uploaded blob after a failed metadata write.
// Failure leaves a stray object behind, which is logged and accepted; it
// must never mask the original error.
func (o *Orchestrator) compensate(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	if err := o.blobs.Delete(ctx, handle); err != nil {
		logger.Get().Error().Err(err).Str("handle", handle).Msg("compensating blob delete failed, object orphaned")
		return
	}
	logger.Get().Info().Str("handle", handle).Msg("compensated orphaned blob after failed persist")
}
