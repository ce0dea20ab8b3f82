package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	eventsProcessed   atomic.Uint64
	snapshotsApplied  atomic.Uint64
	ordersInserted    atomic.Uint64
	ordersRemoved     atomic.Uint64
	duplicateInserts  atomic.Uint64
	unpriceableOrders atomic.Uint64
	fillsApplied      atomic.Uint64
	staleEvents       atomic.Uint64
	feedReconnects    atomic.Uint64

	// Gauges
	feedConnected atomic.Int32 // 1 = connected, 0 = disconnected
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordEvent records one processed feed event.
func (m *Metrics) RecordEvent() { m.eventsProcessed.Add(1) }

// RecordSnapshot records an applied book snapshot.
func (m *Metrics) RecordSnapshot() { m.snapshotsApplied.Add(1) }

// RecordInsert records an order inserted into a side.
func (m *Metrics) RecordInsert() { m.ordersInserted.Add(1) }

// RecordRemoval records an order removed from the book.
func (m *Metrics) RecordRemoval() { m.ordersRemoved.Add(1) }

// RecordDuplicate records an insert of an already-present identity.
func (m *Metrics) RecordDuplicate() { m.duplicateInserts.Add(1) }

// RecordUnpriceable records an order that could not be priced.
func (m *Metrics) RecordUnpriceable() { m.unpriceableOrders.Add(1) }

// RecordFill records a fill applied against a resting order.
func (m *Metrics) RecordFill() { m.fillsApplied.Add(1) }

// RecordStaleEvent records an event discarded by the epoch guard.
func (m *Metrics) RecordStaleEvent() { m.staleEvents.Add(1) }

// RecordReconnect records a feed reconnection attempt.
func (m *Metrics) RecordReconnect() { m.feedReconnects.Add(1) }

// SetFeedConnected sets the feed connection gauge.
func (m *Metrics) SetFeedConnected(connected bool) {
	if connected {
		m.feedConnected.Store(1)
	} else {
		m.feedConnected.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	EventsProcessed   uint64
	SnapshotsApplied  uint64
	OrdersInserted    uint64
	OrdersRemoved     uint64
	DuplicateInserts  uint64
	UnpriceableOrders uint64
	FillsApplied      uint64
	StaleEvents       uint64
	FeedReconnects    uint64
	FeedConnected     bool
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsProcessed:   m.eventsProcessed.Load(),
		SnapshotsApplied:  m.snapshotsApplied.Load(),
		OrdersInserted:    m.ordersInserted.Load(),
		OrdersRemoved:     m.ordersRemoved.Load(),
		DuplicateInserts:  m.duplicateInserts.Load(),
		UnpriceableOrders: m.unpriceableOrders.Load(),
		FillsApplied:      m.fillsApplied.Load(),
		StaleEvents:       m.staleEvents.Load(),
		FeedReconnects:    m.feedReconnects.Load(),
		FeedConnected:     m.feedConnected.Load() == 1,
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.eventsProcessed.Store(0)
	m.snapshotsApplied.Store(0)
	m.ordersInserted.Store(0)
	m.ordersRemoved.Store(0)
	m.duplicateInserts.Store(0)
	m.unpriceableOrders.Store(0)
	m.fillsApplied.Store(0)
	m.staleEvents.Store(0)
	m.feedReconnects.Store(0)
	m.feedConnected.Store(0)
}
