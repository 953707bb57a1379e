package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/verdantpress/blogapi/internal/models"
)

func completeArticle() *models.Article {
	return &models.Article{
		ID:           "a1",
		AuthorID:     "u1",
		Title:        "Leaf spot identification",
		Description:  "Spotting fungal leaf spot early",
		Content:      "Look at the margins of the lesions.",
		Category:     "Fungal",
		ImageURL:     "https://blobs.test/blogs/1.jpg",
		ImageHandle:  "blogs/1.jpg",
		Status:       models.StatusDraft,
		ScheduleDate: time.Now().Add(time.Hour),
	}
}

func TestInitialDefaultsToDraft(t *testing.T) {
	status, err := Initial("", time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("Initial returned error: %v", err)
	}
	if status != models.StatusDraft {
		t.Errorf("expected draft, got %s", status)
	}
}

func TestInitialExplicitPublished(t *testing.T) {
	status, err := Initial(models.StatusPublished, time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("Initial returned error: %v", err)
	}
	if status != models.StatusPublished {
		t.Errorf("expected published, got %s", status)
	}
}

func TestInitialScheduledNeedsFutureDate(t *testing.T) {
	now := time.Now()

	if _, err := Initial(models.StatusScheduled, now.Add(time.Hour), now); err != nil {
		t.Errorf("future schedule date rejected: %v", err)
	}

	_, err := Initial(models.StatusScheduled, now.Add(-24*time.Hour), now)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for past date, got %v", err)
	}
}

func TestInitialUnknownStatus(t *testing.T) {
	_, err := Initial("archived", time.Time{}, time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.Status
		to      models.Status
		allowed bool
	}{
		{"draft to scheduled", models.StatusDraft, models.StatusScheduled, true},
		{"draft to published", models.StatusDraft, models.StatusPublished, true},
		{"scheduled to published", models.StatusScheduled, models.StatusPublished, true},
		{"published is terminal", models.StatusPublished, models.StatusDraft, false},
		{"no unpublish", models.StatusPublished, models.StatusScheduled, false},
		{"no unschedule", models.StatusScheduled, models.StatusDraft, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := completeArticle()
			a.Status = tc.from
			if got := CanTransition(tc.from, tc.to, a); got != tc.allowed {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestTransitionRequiresCompleteArticle(t *testing.T) {
	a := completeArticle()
	a.ImageURL = ""
	if CanTransition(models.StatusDraft, models.StatusPublished, a) {
		t.Error("article without image must not publish")
	}

	err := ApplyTransition(a, models.StatusPublished)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if a.Status != models.StatusDraft {
		t.Errorf("failed transition mutated status to %s", a.Status)
	}
}

func TestApplyTransition(t *testing.T) {
	a := completeArticle()
	if err := ApplyTransition(a, models.StatusScheduled); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if a.Status != models.StatusScheduled {
		t.Errorf("status = %s, want scheduled", a.Status)
	}

	if err := ApplyTransition(a, models.StatusPublished); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if a.Status != models.StatusPublished {
		t.Errorf("status = %s, want published", a.Status)
	}
}

func TestDue(t *testing.T) {
	now := time.Now()

	a := completeArticle()
	a.Status = models.StatusScheduled
	a.ScheduleDate = now.Add(-time.Minute)
	if !Due(a, now) {
		t.Error("past-dated scheduled article should be due")
	}

	a.ScheduleDate = now.Add(time.Minute)
	if Due(a, now) {
		t.Error("future-dated scheduled article should not be due")
	}

	a.Status = models.StatusDraft
	a.ScheduleDate = now.Add(-time.Minute)
	if Due(a, now) {
		t.Error("drafts are never due")
	}
}
