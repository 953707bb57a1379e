// Package lifecycle governs the draft/scheduled/published state of an
// article. The state itself is plain data on the Article; this package is
// the pure rule set deciding which moves are legal.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/verdantpress/blogapi/internal/models"
)

// ErrInvalidTransition is returned when a requested status change is not
// allowed from the article's current state.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// Initial resolves the status a new article starts in. An explicit
// published request wins; a scheduled request needs a schedule date that
// is not in the past; everything else is a draft.
func Initial(requested models.Status, scheduleDate time.Time, now time.Time) (models.Status, error) {
	switch requested {
	case "", models.StatusDraft:
		return models.StatusDraft, nil
	case models.StatusPublished:
		return models.StatusPublished, nil
	case models.StatusScheduled:
		if scheduleDate.Before(now.Truncate(time.Minute)) {
			return "", fmt.Errorf("%w: schedule date %s is in the past", ErrInvalidTransition, scheduleDate.Format(time.RFC3339))
		}
		return models.StatusScheduled, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, requested)
	}
}

// CanTransition reports whether the article may move from its current
// status to the requested one. Published is terminal; there is no
// unpublish.
func CanTransition(current, requested models.Status, article *models.Article) bool {
	if current == requested {
		return false
	}
	switch {
	case current == models.StatusDraft && requested == models.StatusScheduled:
		return hasRequiredFields(article) && !article.ScheduleDate.IsZero()
	case current == models.StatusDraft && requested == models.StatusPublished:
		return hasRequiredFields(article)
	case current == models.StatusScheduled && requested == models.StatusPublished:
		return hasRequiredFields(article)
	default:
		return false
	}
}

// ApplyTransition mutates the article's status after checking the rules.
func ApplyTransition(article *models.Article, requested models.Status) error {
	if !models.IsValidStatus(requested) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, requested)
	}
	if !CanTransition(article.Status, requested, article) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, article.Status, requested)
	}
	article.Status = requested
	return nil
}

// Due reports whether a scheduled article's publish time has arrived.
func Due(article *models.Article, now time.Time) bool {
	return article.Status == models.StatusScheduled && !article.ScheduleDate.After(now)
}

func hasRequiredFields(a *models.Article) bool {
	return a.Title != "" && a.Description != "" && a.Content != "" &&
		a.Category != "" && a.AuthorID != "" && a.ImageURL != ""
}
