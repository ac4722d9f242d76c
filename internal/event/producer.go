// Package event publishes storefront domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	pkgkafka "github.com/srabonmojumder/velora-Ecommerce/pkg/kafka"
)

// Kafka topic constants for storefront events.
const (
	TopicCartUpdated       = "storefront.cart.updated"
	TopicCartCleared       = "storefront.cart.cleared"
	TopicCheckoutCompleted = "storefront.checkout.completed"
)

// Aggregate types.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source is stamped on every event the storefront publishes.
const Source = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	OriginID  string          `json:"origin_id"`
	Items     []CartItemData  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Currency  string          `json:"currency"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	OriginID string `json:"origin_id"`
}

// CheckoutCompletedData is the payload for a checkout.completed event.
type CheckoutCompletedData struct {
	OriginID    string          `json:"origin_id"`
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
}

// Publisher is the subset of *pkgkafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events. A Producer without a
// publisher drops every event.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates an event producer on top of pub.
func NewProducer(pub Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  pub,
		logger: logger,
	}
}

// NewNoopProducer creates a producer that publishes nothing.
func NewNoopProducer() *Producer {
	return &Producer{logger: slog.New(slog.DiscardHandler)}
}

// Enabled reports whether events leave the process.
func (p *Producer) Enabled() bool {
	return p != nil && p.kafka != nil
}

// PublishCartUpdated publishes a cart.updated event with the full cart.
func (p *Producer) PublishCartUpdated(ctx context.Context, origin string, cart domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ProductID: item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice().Round(2),
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		OriginID:  origin,
		Items:     items,
		ItemCount: cart.TotalItems(),
		Subtotal:  cart.TotalPrice().Round(2),
		Currency:  domain.BaseCurrency,
	}

	if err := p.publish(ctx, TopicCartUpdated, origin, AggregateTypeCart, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("origin_id", origin),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, origin string) error {
	if err := p.publish(ctx, TopicCartCleared, origin, AggregateTypeCart, CartClearedData{OriginID: origin}); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("origin_id", origin),
	)
	return nil
}

// PublishCheckoutCompleted publishes a checkout.completed event keyed by the
// order number.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, origin string, order domain.OrderConfirmation) error {
	data := CheckoutCompletedData{
		OriginID:    origin,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		ItemCount:   order.Summary.ItemCount,
		Total:       order.Summary.Total,
		Currency:    order.Summary.Currency,
	}

	if err := p.publish(ctx, TopicCheckoutCompleted, order.OrderNumber, AggregateTypeOrder, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published checkout.completed event",
		slog.String("origin_id", origin),
		slog.String("order_number", order.OrderNumber),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	if !p.Enabled() {
		return nil
	}

	event, err := pkgkafka.NewEvent(ctx, topic, Source, pkgkafka.Aggregate{Type: aggregateType, ID: aggregateID}, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
