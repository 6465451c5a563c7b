package ports

import (
	"context"
	"errors"
)

// ErrArtifactNotFound is returned when an artifact ID is not in the store.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore persists compiled artifacts by ID so they can be
// shared across processes. Values are opaque bytes; the cache decides
// the encoding.
type ArtifactStore interface {
	// Save persists the artifact bytes under the given ID.
	Save(ctx context.Context, id string, data []byte) error

	// Load retrieves the artifact bytes for an ID.
	// Returns ErrArtifactNotFound when the ID is unknown.
	Load(ctx context.Context, id string) ([]byte, error)

	// Delete removes the artifact for an ID. Deleting an unknown ID
	// is not an error.
	Delete(ctx context.Context, id string) error
}
