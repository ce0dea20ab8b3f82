package event

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Pools for the high-frequency incremental events. Snapshots arrive
// once per subscription and are not worth pooling.
//
// Usage:
//
//	ev := AcquireOrderAddedEvent()
//	ev.Order = order
//	// ... send into the inbox ...
//	ReleaseOrderAddedEvent(ev)  // Return to pool after processing
var orderAddedPool = sync.Pool{
	New: func() interface{} {
		return &OrderAddedEvent{}
	},
}

// AcquireOrderAddedEvent gets an OrderAddedEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireOrderAddedEvent() *OrderAddedEvent {
	return orderAddedPool.Get().(*OrderAddedEvent)
}

// ReleaseOrderAddedEvent returns an OrderAddedEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseOrderAddedEvent(ev *OrderAddedEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.Epoch = 0
	ev.Order = nil

	orderAddedPool.Put(ev)
}

// FillEvent pool
var fillPool = sync.Pool{
	New: func() interface{} {
		return &FillEvent{}
	},
}

// AcquireFillEvent gets a FillEvent from the pool.
func AcquireFillEvent() *FillEvent {
	return fillPool.Get().(*FillEvent)
}

// ReleaseFillEvent returns a FillEvent to the pool.
func ReleaseFillEvent(ev *FillEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.Epoch = 0
	ev.OrderHash = ""
	ev.FilledTakerAmount = decimal.Decimal{}

	fillPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
// It acquires and releases a batch of events.
func Warmup() {
	const batchSize = 1000

	addEvs := make([]*OrderAddedEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		addEvs = append(addEvs, AcquireOrderAddedEvent())
	}
	for _, ev := range addEvs {
		ReleaseOrderAddedEvent(ev)
	}

	fillEvs := make([]*FillEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		fillEvs = append(fillEvs, AcquireFillEvent())
	}
	for _, ev := range fillEvs {
		ReleaseFillEvent(ev)
	}
}
