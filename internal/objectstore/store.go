package objectstore

import (
	"context"
	"io"
	"time"
)

// Object describes one stored binary.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store is write-once object storage with public read URLs. Keys are not
// deduplicated or versioned: a second upload with a colliding key overwrites
// silently, so callers must uniquify names themselves.
type Store interface {
	// Upload writes the object and returns its publicly fetchable URL.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// URL resolves a key to its public URL without touching the backend.
	URL(key string) string

	// List returns all objects under the given key prefix.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Delete removes an object. Deleting an unknown key is not an error.
	Delete(ctx context.Context, key string) error
}
