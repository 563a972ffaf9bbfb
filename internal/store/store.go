// Package store is the durable-persistence boundary: a single flat object
// namespace with write-by-key, read-by-key and paginated enumeration.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys with no object.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes one stored object during enumeration.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStore is the capability the pipeline persists through. Put is an
// idempotent overwrite; List walks the whole namespace page by page and
// feeds every object to visit, stopping early when visit returns an error.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, visit func(ObjectInfo) error) error

	// URI renders the externally quotable location of a key, e.g.
	// "s3://bucket/2023-11-14/file.ogg". Persisted records reference
	// stored media by this URI.
	URI(key string) string
}
