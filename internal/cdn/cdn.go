// Package cdn publishes generated artifacts to S3-compatible object
// storage fronted by a CDN (DigitalOcean Spaces in production).
package cdn

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by ReadText when the key does not exist.
var ErrNotFound = errors.New("object not found")

// StorageError wraps any other storage failure. Uploads are not retried
// internally; a failed run is re-triggered by the operator.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Sink is the object-storage abstraction the pipeline publishes through.
type Sink interface {
	// Upload stores data under key and returns its public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// ReadText fetches a stored object as text. Returns ErrNotFound for
	// missing keys.
	ReadText(ctx context.Context, key string) (string, error)
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
