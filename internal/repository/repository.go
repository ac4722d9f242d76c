package repository

import "context"

// BlobRepository is the durable key-value slot behind the storefront stores.
// Each key holds one serialized store envelope; writes overwrite the whole value.
type BlobRepository interface {
	// Get returns the blob stored under key. A missing key yields an error
	// wrapping errors.ErrNotFound from pkg/errors.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
