package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/database"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

const (
	selectBlob = `SELECT payload FROM storage_blobs WHERE key = $1`
	upsertBlob = `
		INSERT INTO storage_blobs (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	deleteBlob = `DELETE FROM storage_blobs WHERE key = $1`
)

// DBTX is the subset of pgxpool.Pool used by the repository. pgxmock pools
// satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// BlobRepository implements repository.BlobRepository on PostgreSQL.
type BlobRepository struct {
	db DBTX
}

// NewBlobRepository creates a PostgreSQL-backed repository. The storage_blobs
// table is created by the embedded migrations.
func NewBlobRepository(db DBTX) *BlobRepository {
	return &BlobRepository{db: db}
}

// Get retrieves the blob stored under key.
func (r *BlobRepository) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, end := database.TraceQuery(ctx, "postgresql", "GetBlob", selectBlob)
	defer func() { end(err) }()

	var payload []byte
	if err := r.db.QueryRow(ctx, selectBlob, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("blob", key)
		}
		return nil, fmt.Errorf("select blob: %w", err)
	}
	return payload, nil
}

// Put upserts the blob stored under key.
func (r *BlobRepository) Put(ctx context.Context, key string, data []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, "postgresql", "PutBlob", upsertBlob)
	defer func() { end(err) }()

	if _, err := r.db.Exec(ctx, upsertBlob, key, data); err != nil {
		return fmt.Errorf("upsert blob: %w", err)
	}
	return nil
}

// Delete removes key.
func (r *BlobRepository) Delete(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceQuery(ctx, "postgresql", "DeleteBlob", deleteBlob)
	defer func() { end(err) }()

	if _, err := r.db.Exec(ctx, deleteBlob, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Ping checks PostgreSQL connectivity.
func (r *BlobRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
