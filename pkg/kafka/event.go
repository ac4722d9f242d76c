package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
)

// SchemaVersion is stamped on every envelope.
const SchemaVersion = 1

// Aggregate names the entity an event is about. Its ID is the message key, so
// every event of one aggregate lands on the same partition.
type Aggregate struct {
	Type string
	ID   string
}

// Event is the envelope of a storefront message. Data holds the typed payload.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	AggregateType string          `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	OriginID      string          `json:"originId,omitempty"`
	CorrelationID string          `json:"correlationId,omitempty"`
	SchemaVersion int             `json:"schemaVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data for agg. The correlation and origin ids of the request
// in ctx are copied onto the envelope.
func NewEvent(ctx context.Context, eventType, source string, agg Aggregate, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		AggregateType: agg.Type,
		AggregateID:   agg.ID,
		OriginID:      logger.OriginIDFromContext(ctx),
		CorrelationID: logger.CorrelationIDFromContext(ctx),
		SchemaVersion: SchemaVersion,
		OccurredAt:    time.Now().UTC(),
		Data:          payload,
	}, nil
}
