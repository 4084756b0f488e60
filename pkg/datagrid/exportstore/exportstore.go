// Package exportstore defines where generated export files are archived.
// Exports are write-once artifacts: a grid serializes to CSV or a
// spreadsheet, the bytes are saved under a key, and clients download them
// later by key or by URL.
package exportstore

import (
	"context"
	"io"
	"time"
)

// Store is the archival capability for generated exports.
type Store interface {
	// Save persists an export under the given key.
	Save(ctx context.Context, key, contentType string, data io.Reader) error

	// Open streams a previously saved export.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// URL returns a direct download URL for the key, when the backend can
	// produce one.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes a saved export.
	Delete(ctx context.Context, key string) error
}

// Meta describes one archived export.
type Meta struct {
	Key         string
	Size        int64
	ContentType string
	SavedAt     time.Time
}

// Lister is implemented by backends that can enumerate archived exports.
type Lister interface {
	List(ctx context.Context, prefix string) ([]Meta, error)
}
