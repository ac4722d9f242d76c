package session

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/srabonmojumder/velora-Ecommerce/internal/metrics"
	"github.com/srabonmojumder/velora-Ecommerce/internal/persist"
)

// Manager hands out the Session for an origin. Loaded sessions are kept in an
// LRU cache so repeated requests share one set of stores; concurrent first
// requests for the same origin share a single load.
//
// With the cache disabled every request rehydrates from the repository, and
// two overlapping writes to one origin resolve as last write wins.
type Manager struct {
	persister *persist.Persister
	cache     *lru.Cache[string, *Session]
	loads     singleflight.Group
	logger    *slog.Logger
}

// NewManager creates a manager caching up to cacheSize sessions. A cacheSize
// of zero disables caching.
func NewManager(p *persist.Persister, cacheSize int, logger *slog.Logger) (*Manager, error) {
	m := &Manager{persister: p, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.NewWithEvict[string, *Session](cacheSize, func(origin string, _ *Session) {
			logger.Debug("session evicted", slog.String("origin_id", origin))
		})
		if err != nil {
			return nil, fmt.Errorf("create session cache: %w", err)
		}
		m.cache = cache
	}
	return m, nil
}

// Get returns the session for origin, loading it on first use. A load that
// fails is not cached, so the next request reads the repository again.
func (m *Manager) Get(ctx context.Context, origin string) (*Session, error) {
	if m.cache != nil {
		if s, ok := m.cache.Get(origin); ok {
			metrics.SessionLookups.WithLabelValues("hit").Inc()
			return s, nil
		}
	}

	v, err, shared := m.loads.Do(origin, func() (any, error) {
		// A concurrent load may have finished between the cache miss and here.
		if m.cache != nil {
			if s, ok := m.cache.Get(origin); ok {
				return s, nil
			}
		}
		s, err := Load(context.WithoutCancel(ctx), m.persister, origin)
		if err != nil {
			return nil, err
		}
		if m.cache != nil {
			m.cache.Add(origin, s)
		}
		return s, nil
	})
	if err != nil {
		metrics.SessionLookups.WithLabelValues("error").Inc()
		return nil, err
	}

	result := "miss"
	if shared {
		result = "shared"
	}
	metrics.SessionLookups.WithLabelValues(result).Inc()
	return v.(*Session), nil
}

// Evict drops the cached session of origin. Persisted state is untouched.
func (m *Manager) Evict(origin string) {
	if m.cache != nil {
		m.cache.Remove(origin)
	}
}

// Len reports the number of cached sessions.
func (m *Manager) Len() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.Len()
}
