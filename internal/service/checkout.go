package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	"github.com/srabonmojumder/velora-Ecommerce/internal/metrics"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/validator"
)

// Checkout simulates placing an order for the cart of origin: it validates
// the form, waits the configured processing delay, prices the cart, clears it
// and returns a client-style order number. Nothing is charged or stored.
func (s *StorefrontService) Checkout(ctx context.Context, origin string, form domain.CheckoutForm) (*domain.OrderConfirmation, error) {
	if err := validator.Validate(form); err != nil {
		return nil, err
	}

	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}
	if len(sess.Cart.Snapshot().Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	// The cart may have changed during the delay; price what is cleared.
	var placed domain.Cart
	_, applied := dispatch(ctx, sess.Cart, "checkout", func(c domain.Cart) (domain.Cart, bool) {
		placed = c
		return c.Clear()
	})
	if !applied {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	order := &domain.OrderConfirmation{
		OrderNumber: domain.NewOrderNumber(s.newID()),
		Email:       form.Email,
		Items:       placed.Items,
		Summary:     domain.Summarize(placed),
		PlacedAt:    s.now().UTC(),
	}
	metrics.CheckoutsCompleted.Inc()

	if err := s.producer.PublishCheckoutCompleted(ctx, origin, *order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.completed event",
			slog.String("origin_id", origin),
			slog.String("order_number", order.OrderNumber),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishCartCleared(ctx, origin); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("origin_id", origin),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("origin_id", origin),
		slog.String("order_number", order.OrderNumber),
		slog.Int("item_count", order.Summary.ItemCount),
		slog.String("total", order.Summary.Total.StringFixed(2)),
	)

	return order, nil
}

func (s *StorefrontService) wait(ctx context.Context) error {
	if s.checkoutDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.checkoutDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
