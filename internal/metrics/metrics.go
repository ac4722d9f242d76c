// Package metrics declares the Prometheus collectors for the storefront stores.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreMutations counts dispatched store operations by outcome.
	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_mutations_total",
			Help: "Store operations dispatched, labeled by whether they changed state",
		},
		[]string{"store", "operation", "applied"},
	)

	// PersistFailures counts blob writes that failed after a state change.
	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_persist_failures_total",
			Help: "Failed writes of store state to the blob repository",
		},
		[]string{"store"},
	)

	// RehydrateFallbacks counts loads that fell back to empty state.
	RehydrateFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_rehydrate_fallbacks_total",
			Help: "Store loads that fell back to empty state, labeled by reason",
		},
		[]string{"store", "reason"},
	)

	// BreakerState exposes the storage circuit breaker state
	// (0=closed, 1=half-open, 2=open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_storage_breaker_state",
			Help: "Current state of the storage circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// SessionLookups counts session cache lookups (result=hit|miss|shared|error).
	SessionLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_session_lookups_total",
			Help: "Session lookups by cache result",
		},
		[]string{"result"},
	)

	// CheckoutsCompleted counts simulated checkouts.
	CheckoutsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_completed_total",
			Help: "Simulated checkouts that produced an order number",
		},
	)
)

// ObserveMutation records one store operation.
func ObserveMutation(store, operation string, applied bool) {
	StoreMutations.WithLabelValues(store, operation, strconv.FormatBool(applied)).Inc()
}
