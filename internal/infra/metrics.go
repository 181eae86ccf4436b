package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	ordersPlaced       atomic.Uint64
	ordersRejected     atomic.Uint64 // validation failures, pre-network
	exchangeRejections atomic.Uint64
	transportErrors    atomic.Uint64
	queries            atomic.Uint64
}

// RecordOrderPlaced records a successfully placed order.
func (m *Metrics) RecordOrderPlaced() {
	m.ordersPlaced.Add(1)
}

// RecordOrderRejected records an order rejected by validation.
func (m *Metrics) RecordOrderRejected() {
	m.ordersRejected.Add(1)
}

// RecordExchangeRejection records a semantic rejection from the exchange.
func (m *Metrics) RecordExchangeRejection() {
	m.exchangeRejections.Add(1)
}

// RecordTransportError records a network-level dispatch failure.
func (m *Metrics) RecordTransportError() {
	m.transportErrors.Add(1)
}

// RecordQuery records a read-only account or order lookup.
func (m *Metrics) RecordQuery() {
	m.queries.Add(1)
}

// MetricsSnapshot is a point-in-time view of all counters.
type MetricsSnapshot struct {
	OrdersPlaced       uint64    `json:"orders_placed"`
	OrdersRejected     uint64    `json:"orders_rejected"`
	ExchangeRejections uint64    `json:"exchange_rejections"`
	TransportErrors    uint64    `json:"transport_errors"`
	Queries            uint64    `json:"queries"`
	Timestamp          time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		OrdersPlaced:       m.ordersPlaced.Load(),
		OrdersRejected:     m.ordersRejected.Load(),
		ExchangeRejections: m.exchangeRejections.Load(),
		TransportErrors:    m.transportErrors.Load(),
		Queries:            m.queries.Load(),
		Timestamp:          time.Now(),
	}
}
