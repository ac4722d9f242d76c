// Package service implements the storefront operations on top of the
// per-origin sessions and the static catalog.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/srabonmojumder/velora-Ecommerce/internal/catalog"
	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	"github.com/srabonmojumder/velora-Ecommerce/internal/event"
	"github.com/srabonmojumder/velora-Ecommerce/internal/metrics"
	"github.com/srabonmojumder/velora-Ecommerce/internal/session"
	"github.com/srabonmojumder/velora-Ecommerce/internal/state"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

// Sessions resolves the session of an origin.
type Sessions interface {
	Get(ctx context.Context, origin string) (*session.Session, error)
}

// StorefrontService implements cart, wishlist, compare, recently viewed and
// checkout operations for one origin at a time.
type StorefrontService struct {
	catalog       *catalog.Catalog
	sessions      Sessions
	producer      *event.Producer
	logger        *slog.Logger
	checkoutDelay time.Duration

	now   func() time.Time
	newID func() uuid.UUID
}

// NewStorefrontService creates a storefront service. checkoutDelay is the
// simulated processing time of a checkout.
func NewStorefrontService(
	cat *catalog.Catalog,
	sessions Sessions,
	producer *event.Producer,
	logger *slog.Logger,
	checkoutDelay time.Duration,
) *StorefrontService {
	if producer == nil {
		producer = event.NewNoopProducer()
	}
	return &StorefrontService{
		catalog:       cat,
		sessions:      sessions,
		producer:      producer,
		logger:        logger,
		checkoutDelay: checkoutDelay,
		now:           time.Now,
		newID:         uuid.New,
	}
}

// Catalog returns the catalog products are resolved against.
func (s *StorefrontService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *StorefrontService) session(ctx context.Context, origin string) (*session.Session, error) {
	if origin == "" {
		return nil, apperrors.InvalidInput("origin id is required")
	}
	return s.sessions.Get(ctx, origin)
}

// resolve looks up the session and the catalog product in one step.
func (s *StorefrontService) resolve(ctx context.Context, origin string, productID int) (*session.Session, domain.Product, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, domain.Product{}, err
	}
	p, err := s.catalog.Product(productID)
	if err != nil {
		return nil, domain.Product{}, err
	}
	return sess, p, nil
}

func dispatch[S any](ctx context.Context, st *state.Store[S], operation string, r state.Reducer[S]) (S, bool) {
	next, applied := st.Dispatch(ctx, r)
	metrics.ObserveMutation(st.Name(), operation, applied)
	return next, applied
}
