package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/srabonmojumder/velora-Ecommerce/internal/metrics"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

// ErrBreakerOpen is returned while the storage breaker rejects calls.
var ErrBreakerOpen = gobreaker.ErrOpenState

// BreakerConfig tunes the storage circuit breaker.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig trips after half of at least five calls fail and retries
// again after 30 seconds.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// BreakerRepository guards another BlobRepository with a circuit breaker so a
// failing backend is skipped quickly instead of stalling every request.
type BreakerRepository struct {
	next    BlobRepository
	breaker *gobreaker.CircuitBreaker[[]byte]
	name    string
}

// NewBreakerRepository wraps next.
func NewBreakerRepository(next BlobRepository, cfg BreakerConfig, logger *slog.Logger) *BreakerRepository {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("storage breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	}
	metrics.BreakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerRepository{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		name:    cfg.Name,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func (r *BreakerRepository) Get(ctx context.Context, key string) ([]byte, error) {
	return r.breaker.Execute(func() ([]byte, error) {
		return r.next.Get(ctx, key)
	})
}

func (r *BreakerRepository) Put(ctx context.Context, key string, data []byte) error {
	_, err := r.breaker.Execute(func() ([]byte, error) {
		return nil, r.next.Put(ctx, key, data)
	})
	return err
}

func (r *BreakerRepository) Delete(ctx context.Context, key string) error {
	_, err := r.breaker.Execute(func() ([]byte, error) {
		return nil, r.next.Delete(ctx, key)
	})
	return err
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (r *BreakerRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// State returns the current breaker state.
func (r *BreakerRepository) State() gobreaker.State {
	return r.breaker.State()
}
