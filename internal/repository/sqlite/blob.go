package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/database"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

const (
	selectBlob = `SELECT payload FROM storage WHERE key = ?`
	upsertBlob = `
		INSERT INTO storage (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	deleteBlob = `DELETE FROM storage WHERE key = ?`
)

const schema = `CREATE TABLE IF NOT EXISTS storage (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// BlobRepository stores blobs in a single SQLite table, one row per key.
// It is the closest server-side analogue of a browser's local storage.
type BlobRepository struct {
	db *sql.DB
}

// NewBlobRepository creates the storage table if needed.
func NewBlobRepository(ctx context.Context, db *sql.DB) (*BlobRepository, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create storage table: %w", err)
	}
	return &BlobRepository{db: db}, nil
}

// Get retrieves the blob stored under key.
func (r *BlobRepository) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, end := database.TraceQuery(ctx, "sqlite", "GetBlob", selectBlob)
	defer func() { end(err) }()

	var payload []byte
	if err := r.db.QueryRowContext(ctx, selectBlob, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("blob", key)
		}
		return nil, fmt.Errorf("select blob: %w", err)
	}
	return payload, nil
}

// Put upserts the blob stored under key.
func (r *BlobRepository) Put(ctx context.Context, key string, data []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, "sqlite", "PutBlob", upsertBlob)
	defer func() { end(err) }()

	if _, err := r.db.ExecContext(ctx, upsertBlob, key, data); err != nil {
		return fmt.Errorf("upsert blob: %w", err)
	}
	return nil
}

// Delete removes key.
func (r *BlobRepository) Delete(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceQuery(ctx, "sqlite", "DeleteBlob", deleteBlob)
	defer func() { end(err) }()

	if _, err := r.db.ExecContext(ctx, deleteBlob, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Ping checks that the database file is usable.
func (r *BlobRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
