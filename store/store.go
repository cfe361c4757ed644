package store

import (
	"context"
	"errors"

	"github.com/mrsingh-rishi/voice-scribe/model"
)

// ErrNotFound is returned by Delete when no record with the given id is
// owned by the given owner. Ownership mismatch and a missing record are
// deliberately indistinguishable.
var ErrNotFound = errors.New("transcription not found")

// Store persists transcription records. Records are immutable once
// created; the only operations are create, owner-scoped list, and
// owner-scoped delete.
type Store interface {
	// Create saves a new record and returns it with its assigned id and
	// creation time.
	Create(ctx context.Context, ownerID, text, mimeType string) (model.Transcription, error)

	// ListByOwner returns the owner's records, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Transcription, error)

	// Delete removes the record with the given id if it is owned by
	// ownerID, otherwise returns ErrNotFound.
	Delete(ctx context.Context, id, ownerID string) error

	// Close releases the underlying connection. The handle is opened at
	// startup and closed at shutdown by the composition root.
	Close() error
}
