package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// ValidStatuses lists every status the store accepts.
var ValidStatuses = []Status{StatusDraft, StatusScheduled, StatusPublished}

// IsValidStatus reports whether s is a known lifecycle status.
func IsValidStatus(s Status) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CategoryOther is the sentinel category value that requires an
// accompanying free-text custom category.
const CategoryOther = "Other"

// KnownCategories is the fixed facet set offered by the upload form.
// Anything else arrives through the "Other" escape hatch.
var KnownCategories = []string{
	"Fungal",
	"Bacterial",
	"Viral",
	"Pests",
	"Nutrition",
	"Tech",
	CategoryOther,
}

// IsKnownCategory reports whether c is one of the fixed facets.
func IsKnownCategory(c string) bool {
	for _, k := range KnownCategories {
		if strings.EqualFold(k, c) {
			return true
		}
	}
	return false
}

// Article represents a stored blog post with its attached image asset.
type Article struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"image_url"`
	ImageHandle  string    `json:"-"`
	Status       Status    `json:"status"`
	ScheduleDate time.Time `json:"schedule_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ArticleView is an article enriched with its author's public summary,
// the shape served by list and detail reads.
type ArticleView struct {
	Article
	Author AuthorSummary `json:"author"`
}

// ArticlePatch carries the mutable fields of an update. Nil means
// "leave unchanged".
type ArticlePatch struct {
	Title       *string
	Description *string
	Content     *string
	Category    *string
	ImageURL    *string
	ImageHandle *string
	Status      *Status
}
