package publish

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrImageUploadFailed is returned when the blob store rejects the
	// image or cannot be reached. No article record exists when this is
	// surfaced.
	ErrImageUploadFailed = errors.New("image upload failed")

	// ErrPersistence is returned when the metadata store write fails
	// after the image was already uploaded; compensation has been
	// attempted by the time the caller sees it.
	ErrPersistence = errors.New("article persistence failed")

	// ErrNotOwner is returned when a mutation is attempted by an
	// identity that does not own the article.
	ErrNotOwner = errors.New("article is owned by another author")
)

// ValidationError reports every violated field of a submission, not just
// the first, so the caller can fix them all in one round trip.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
