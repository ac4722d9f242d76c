package memory

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

// BlobRepository keeps blobs in process memory. State does not survive a
// restart; it backs tests and local development.
type BlobRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewBlobRepository creates an empty in-memory repository.
func NewBlobRepository() *BlobRepository {
	return &BlobRepository{blobs: make(map[string][]byte)}
}

func (r *BlobRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.blobs[key]
	if !ok {
		return nil, apperrors.NotFound("blob", key)
	}
	return slices.Clone(data), nil
}

func (r *BlobRepository) Put(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = slices.Clone(data)
	return nil
}

func (r *BlobRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, key)
	return nil
}

func (r *BlobRepository) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored keys.
func (r *BlobRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}
