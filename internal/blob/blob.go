// Package blob stores binary image assets in a remote object store and
// hands back a public URL plus an opaque handle used for later deletion.
package blob

import (
	"context"
	"errors"
)

var (
	// ErrPayloadTooLarge is returned before any upload is attempted when
	// the payload exceeds the configured size ceiling.
	ErrPayloadTooLarge = errors.New("image payload exceeds size limit")

	// ErrStorageUnavailable is returned when the remote store cannot be
	// reached or rejects the request.
	ErrStorageUnavailable = errors.New("blob storage unavailable")

	// ErrNotFound is returned by Delete when the handle does not resolve
	// to a stored object.
	ErrNotFound = errors.New("blob not found")
)

// Stored describes a durably persisted asset.
type Stored struct {
	URL    string
	Handle string
}

// Store is the adapter boundary for the remote object store. Keeping the
// orchestrator behind this interface lets its compensation logic be
// exercised without a live bucket.
type Store interface {
	// Store persists data and returns its public URL and deletion handle.
	// The bytes are durable before Store returns.
	Store(ctx context.Context, data []byte, mimeType, folder string) (Stored, error)

	// Delete removes a previously stored asset by handle. Used for
	// compensation; a failure here is a space leak, not a correctness
	// violation.
	Delete(ctx context.Context, handle string) error
}
