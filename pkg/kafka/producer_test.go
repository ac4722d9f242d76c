package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func header(msg kafka.Message, key string) string {
	return headerCarrier{headers: &msg.Headers}.Get(key)
}

func decodeEnvelope(t *testing.T, msg kafka.Message) Event {
	t.Helper()
	var e Event
	require.NoError(t, json.Unmarshal(msg.Value, &e))
	return e
}

func TestNewEvent(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	ctx = logger.WithOriginID(ctx, "device-1")

	event, err := NewEvent(ctx, "storefront.cart.updated", "storefront", Aggregate{Type: "cart", ID: "device-1"}, map[string]int{"items": 2})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, SchemaVersion, event.SchemaVersion)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, "device-1", event.OriginID)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
	assert.JSONEq(t, `{"items":2}`, string(event.Data))
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent(context.Background(), "storefront.cart.updated", "storefront", Aggregate{Type: "cart", ID: "device-1"}, make(chan int))
	assert.ErrorContains(t, err, "marshal storefront.cart.updated payload")
}

func TestProducer_Publish(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	w := &mockWriter{}
	var sent kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).([]kafka.Message)[0]
	}).Return(nil)

	p := NewProducerWithWriter(w, []string{"localhost:9092"}, discardLogger())
	ctx = logger.WithOriginID(logger.WithCorrelationID(ctx, "corr-9"), "device-1")
	event, err := NewEvent(ctx, "storefront.cart.cleared", "storefront", Aggregate{Type: "cart", ID: "device-1"}, struct{}{})
	require.NoError(t, err)

	before := testutil.ToFloat64(messagesPublished.WithLabelValues("storefront.cart.cleared"))
	require.NoError(t, p.Publish(ctx, "storefront.cart.cleared", event))

	assert.Equal(t, "storefront.cart.cleared", sent.Topic)
	assert.Equal(t, "device-1", string(sent.Key))
	assert.Equal(t, "storefront.cart.cleared", header(sent, "event_type"))
	assert.Equal(t, "corr-9", header(sent, "correlation_id"))
	assert.Equal(t, "device-1", header(sent, "origin_id"))
	assert.JSONEq(t, `{}`, string(decodeEnvelope(t, sent).Data))
	assert.Contains(t, header(sent, "traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Equal(t, before+1, testutil.ToFloat64(messagesPublished.WithLabelValues("storefront.cart.cleared")))
	w.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	w := &mockWriter{}
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	p := NewProducerWithWriter(w, nil, discardLogger())
	event, err := NewEvent(context.Background(), "storefront.cart.updated", "storefront", Aggregate{Type: "cart", ID: "device-2"}, nil)
	require.NoError(t, err)

	before := testutil.ToFloat64(publishErrors.WithLabelValues("storefront.cart.updated"))
	err = p.Publish(context.Background(), "storefront.cart.updated", event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event to storefront.cart.updated")
	assert.Equal(t, before+1, testutil.ToFloat64(publishErrors.WithLabelValues("storefront.cart.updated")))
}

func TestProducer_PingWithoutBrokers(t *testing.T) {
	p := NewProducerWithWriter(&mockWriter{}, nil, discardLogger())
	assert.ErrorContains(t, p.Ping(context.Background()), "no brokers configured")
}

func TestProducer_Close(t *testing.T) {
	w := &mockWriter{}
	w.On("Close").Return(nil)

	require.NoError(t, NewProducerWithWriter(w, nil, discardLogger()).Close())
	w.AssertExpectations(t)
}

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "a", Value: []byte("1")}}
	c := headerCarrier{headers: &headers}

	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "2", c.Get("a"))
	assert.Equal(t, "3", c.Get("b"))
	assert.Empty(t, c.Get("missing"))
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
}
