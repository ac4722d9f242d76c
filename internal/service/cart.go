package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

// MaxAddQuantity bounds the quantity accepted by a single add request.
const MaxAddQuantity = 100

// CartView is the cart projection returned to clients.
type CartView struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Applied    bool              `json:"applied"`
}

func newCartView(c domain.Cart, applied bool) *CartView {
	return &CartView{
		Items:      c.Items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice().Round(2),
		Applied:    applied,
	}
}

// AddToCartInput holds the parameters for adding a product to the cart.
type AddToCartInput struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"omitempty,gte=1,lte=100"`
}

// UpdateCartItemInput holds the new quantity of a cart line. An explicit zero
// or less removes the line; a missing quantity is rejected.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// GetCart returns the cart of origin.
func (s *StorefrontService) GetCart(ctx context.Context, origin string) (*CartView, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}
	return newCartView(sess.Cart.Snapshot(), false), nil
}

// AddToCart adds the product input.Quantity times, as if the add button had
// been pressed repeatedly. A missing quantity counts as one.
func (s *StorefrontService) AddToCart(ctx context.Context, origin string, input AddToCartInput) (*CartView, error) {
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if qty > MaxAddQuantity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxAddQuantity))
	}

	sess, p, err := s.resolve(ctx, origin, input.ProductID)
	if err != nil {
		return nil, err
	}

	cart, applied := dispatch(ctx, sess.Cart, "add", func(c domain.Cart) (domain.Cart, bool) {
		changed := false
		for range qty {
			var ok bool
			c, ok = c.Add(p)
			changed = changed || ok
		}
		return c, changed
	})

	s.publishCartUpdated(ctx, origin, cart, applied)

	s.logger.InfoContext(ctx, "product added to cart",
		slog.String("origin_id", origin),
		slog.Int("product_id", p.ID),
		slog.Int("quantity", qty),
	)

	return newCartView(cart, applied), nil
}

// UpdateCartItem sets the quantity of a cart line. Updating a product that
// is not in the cart changes nothing.
func (s *StorefrontService) UpdateCartItem(ctx context.Context, origin string, productID int, input UpdateCartItemInput) (*CartView, error) {
	if input.Quantity == nil {
		return nil, apperrors.InvalidInput("quantity is required")
	}
	qty := *input.Quantity

	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	cart, applied := dispatch(ctx, sess.Cart, "update_quantity", func(c domain.Cart) (domain.Cart, bool) {
		return c.UpdateQuantity(p.ID, qty)
	})

	s.publishCartUpdated(ctx, origin, cart, applied)

	if applied {
		s.logger.InfoContext(ctx, "cart item quantity updated",
			slog.String("origin_id", origin),
			slog.Int("product_id", p.ID),
			slog.Int("quantity", qty),
		)
	}

	return newCartView(cart, applied), nil
}

// RemoveFromCart drops a product line from the cart.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, origin string, productID int) (*CartView, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	cart, applied := dispatch(ctx, sess.Cart, "remove", func(c domain.Cart) (domain.Cart, bool) {
		return c.Remove(p.ID)
	})

	s.publishCartUpdated(ctx, origin, cart, applied)

	if applied {
		s.logger.InfoContext(ctx, "product removed from cart",
			slog.String("origin_id", origin),
			slog.Int("product_id", p.ID),
		)
	}

	return newCartView(cart, applied), nil
}

// ClearCart empties the cart of origin.
func (s *StorefrontService) ClearCart(ctx context.Context, origin string) (*CartView, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}

	cart, applied := dispatch(ctx, sess.Cart, "clear", domain.Cart.Clear)

	if applied {
		if err := s.producer.PublishCartCleared(ctx, origin); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
				slog.String("origin_id", origin),
				slog.String("error", err.Error()),
			)
		}
		s.logger.InfoContext(ctx, "cart cleared", slog.String("origin_id", origin))
	}

	return newCartView(cart, applied), nil
}

// CartSummary prices the cart of origin and converts it into currency. An
// empty currency means the base currency.
func (s *StorefrontService) CartSummary(ctx context.Context, origin, currency string) (*domain.OrderSummary, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}

	cart := sess.Cart.Snapshot()
	if currency == "" || strings.EqualFold(currency, domain.BaseCurrency) {
		summary := domain.Summarize(cart)
		return &summary, nil
	}

	cur, ok := domain.LookupCurrency(currency)
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported currency %q", currency))
	}
	summary := domain.SummarizeIn(cart, cur)
	return &summary, nil
}

func (s *StorefrontService) publishCartUpdated(ctx context.Context, origin string, cart domain.Cart, applied bool) {
	if !applied {
		return
	}
	if err := s.producer.PublishCartUpdated(ctx, origin, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("origin_id", origin),
			slog.String("error", err.Error()),
		)
	}
}
