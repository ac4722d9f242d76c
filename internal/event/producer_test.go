package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	pkgkafka "github.com/srabonmojumder/velora-Ecommerce/pkg/kafka"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	return m.Called(ctx, topic, event).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishCartUpdated(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, discardLogger())

	cart := domain.Cart{Items: []domain.CartItem{
		{Product: domain.Product{ID: 1, Name: "Headphones", Price: 100, Discount: 20}, Quantity: 2},
		{Product: domain.Product{ID: 2, Name: "Scarf", Price: 15}, Quantity: 1},
	}}

	var captured *pkgkafka.Event
	pub.On("Publish", mock.Anything, TopicCartUpdated, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) { captured = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	ctx := logger.WithCorrelationID(context.Background(), "corr-7")
	require.NoError(t, p.PublishCartUpdated(ctx, "device-1", cart))
	pub.AssertExpectations(t)

	require.NotNil(t, captured)
	assert.Equal(t, "device-1", captured.AggregateID)
	assert.Equal(t, AggregateTypeCart, captured.AggregateType)
	assert.Equal(t, Source, captured.Source)
	assert.Equal(t, "corr-7", captured.CorrelationID)

	var data CartUpdatedData
	require.NoError(t, json.Unmarshal(captured.Data, &data))
	assert.Equal(t, 3, data.ItemCount)
	assert.Equal(t, "USD", data.Currency)
	assert.True(t, decimal.RequireFromString("175").Equal(data.Subtotal), data.Subtotal.String())
	require.Len(t, data.Items, 2)
	assert.True(t, decimal.NewFromInt(80).Equal(data.Items[0].UnitPrice))
}

func TestPublishCartCleared(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, discardLogger())

	pub.On("Publish", mock.Anything, TopicCartCleared, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		return e.AggregateID == "device-2" && e.Type == TopicCartCleared
	})).Return(nil)

	require.NoError(t, p.PublishCartCleared(context.Background(), "device-2"))
	pub.AssertExpectations(t)
}

func TestPublishCheckoutCompleted_KeyedByOrderNumber(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, discardLogger())

	order := domain.OrderConfirmation{
		OrderNumber: "LUX-ABC123XYZ",
		Email:       "ada@example.com",
		Summary: domain.OrderSummary{
			Currency:  "USD",
			ItemCount: 2,
			Total:     decimal.RequireFromString("64.90"),
		},
		PlacedAt: time.Now(),
	}

	pub.On("Publish", mock.Anything, TopicCheckoutCompleted, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		var data CheckoutCompletedData
		if err := json.Unmarshal(e.Data, &data); err != nil {
			return false
		}
		return e.AggregateID == order.OrderNumber &&
			e.AggregateType == AggregateTypeOrder &&
			data.OriginID == "device-3" &&
			data.ItemCount == 2
	})).Return(nil)

	require.NoError(t, p.PublishCheckoutCompleted(context.Background(), "device-3", order))
	pub.AssertExpectations(t)
}

func TestPublish_WrapsPublisherError(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, discardLogger())

	boom := errors.New("broker down")
	pub.On("Publish", mock.Anything, TopicCartCleared, mock.Anything).Return(boom)

	err := p.PublishCartCleared(context.Background(), "device-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "publish storefront.cart.cleared event")
}

func TestNoopProducer(t *testing.T) {
	p := NewNoopProducer()
	assert.False(t, p.Enabled())

	ctx := context.Background()
	assert.NoError(t, p.PublishCartUpdated(ctx, "device-1", domain.Cart{}))
	assert.NoError(t, p.PublishCartCleared(ctx, "device-1"))
	assert.NoError(t, p.PublishCheckoutCompleted(ctx, "device-1", domain.OrderConfirmation{}))
}
