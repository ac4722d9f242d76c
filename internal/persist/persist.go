// Package persist mirrors store state into a BlobRepository. Writes happen in
// a store observer after every applied transition; loads fall back to the
// initial state when the stored blob is missing or undecodable, and fail when
// the repository cannot be read.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/srabonmojumder/velora-Ecommerce/internal/metrics"
	"github.com/srabonmojumder/velora-Ecommerce/internal/repository"
	"github.com/srabonmojumder/velora-Ecommerce/internal/state"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/tracing"
)

// Version is written into every envelope.
const Version = 0

const defaultWriteTimeout = 3 * time.Second

// Envelope is the persisted blob layout: {"state": {...}, "version": n}.
type Envelope[S any] struct {
	State   S   `json:"state"`
	Version int `json:"version"`
}

// Key namespaces a store key by origin, e.g. "cart-storage:device-1".
func Key(storeName, origin string) string {
	return storeName + ":" + origin
}

// Persister writes and reads store envelopes.
type Persister struct {
	repo         repository.BlobRepository
	logger       *slog.Logger
	writeTimeout time.Duration
}

// NewPersister creates a persister on top of repo.
func NewPersister(repo repository.BlobRepository, logger *slog.Logger) *Persister {
	return &Persister{
		repo:         repo,
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
	}
}

// Observer returns a store observer that saves every new state under key.
// Failures are logged and counted; the in-memory state is kept as is.
func Observer[S any](p *Persister, storeName, key string) state.Observer[S] {
	return func(ctx context.Context, next S) {
		// The state has already changed, so the write must not be dropped
		// because the triggering request went away.
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.writeTimeout)
		defer cancel()
		wctx, span := tracing.StartSpan(wctx, "persist "+storeName, attribute.String("storefront.key", key))
		defer span.End()

		if err := Save(wctx, p, key, next); err != nil {
			tracing.RecordError(span, err)
			metrics.PersistFailures.WithLabelValues(storeName).Inc()
			logger.WithContext(ctx, p.logger).WarnContext(ctx, "failed to persist store state",
				slog.String("store", storeName),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Save serializes s into an envelope and writes it under key.
func Save[S any](ctx context.Context, p *Persister, key string, s S) error {
	data, err := json.Marshal(Envelope[S]{State: s, Version: Version})
	if err != nil {
		return apperrors.Wrap(err, "marshal envelope")
	}
	if err := p.repo.Put(ctx, key, data); err != nil {
		return apperrors.Wrap(err, "put envelope")
	}
	return nil
}

// Load reads the envelope under key. A missing or undecodable blob yields
// initial. A failed read returns an Unavailable error, since starting empty
// would let the next write overwrite state that is still stored.
func Load[S any](ctx context.Context, p *Persister, storeName, key string, initial S) (S, error) {
	data, err := p.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return initial, nil
		}
		logger.WithContext(ctx, p.logger).WarnContext(ctx, "failed to read store state",
			slog.String("store", storeName),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return initial, apperrors.Unavailable("storage is unavailable", fmt.Errorf("read %s: %w", key, err))
	}

	var env Envelope[*S]
	if err := json.Unmarshal(data, &env); err != nil || env.State == nil {
		reason := "empty state"
		if err != nil {
			reason = err.Error()
		}
		metrics.RehydrateFallbacks.WithLabelValues(storeName, "decode").Inc()
		logger.WithContext(ctx, p.logger).WarnContext(ctx, "corrupt store state, starting empty",
			slog.String("store", storeName),
			slog.String("key", key),
			slog.String("error", reason),
		)
		return initial, nil
	}
	return *env.State, nil
}

// Forget deletes the blob stored under key.
func Forget(ctx context.Context, p *Persister, key string) error {
	return p.repo.Delete(ctx, key)
}
