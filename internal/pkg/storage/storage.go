package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// BlobStore is a durable key-value store holding opaque blobs
type BlobStore interface {
	// Get returns ErrNotFound when key has never been written or was deleted
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or overwrites key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
}
