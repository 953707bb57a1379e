package models

import "time"

// Submission is the transport-independent command consumed by the
// publishing pipeline: already-parsed form fields plus the raw image
// payload. Handlers build one from a multipart request; tests build one
// directly.
type Submission struct {
	AuthorEmail    string    `validate:"required,email"`
	Title          string    `validate:"required"`
	Description    string    `validate:"required"`
	Content        string    `validate:"required"`
	Category       string    `validate:"required"`
	CustomCategory string    // required when Category == "Other"
	Status         Status    // empty means draft
	ScheduleDate   time.Time `validate:"required"`

	// Exactly one image source: inline bytes or a remote URL the
	// pipeline fetches itself.
	ImageData []byte
	ImageMime string
	ImageURL  string
}

// HasImage reports whether the submission carries any image source.
func (s *Submission) HasImage() bool {
	return len(s.ImageData) > 0 || s.ImageURL != ""
}

// EffectiveCategory resolves the "Other" sentinel to the free-text
// custom value supplied with it.
func (s *Submission) EffectiveCategory() string {
	if s.Category == CategoryOther && s.CustomCategory != "" {
		return s.CustomCategory
	}
	return s.Category
}
