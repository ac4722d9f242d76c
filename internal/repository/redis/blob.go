package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

// BlobRepository implements repository.BlobRepository on Redis string keys.
type BlobRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewBlobRepository creates a Redis-backed repository. Keys are stored under
// prefix. A zero ttl stores blobs without expiry.
func NewBlobRepository(client *redis.Client, prefix string, ttl time.Duration) *BlobRepository {
	return &BlobRepository{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get retrieves the blob stored under key.
func (r *BlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("blob", key)
		}
		return nil, fmt.Errorf("redis get blob: %w", err)
	}
	return data, nil
}

// Put overwrites the blob stored under key.
func (r *BlobRepository) Put(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set blob: %w", err)
	}
	return nil
}

// Delete removes key.
func (r *BlobRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del blob: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (r *BlobRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
