package event

import (
	"github.com/shopspring/decimal"

	"orderbook_go/internal/domain"
)

// Type defines the type of event.
type Type uint16

const (
	EvSnapshot Type = iota + 1
	EvOrderAdded
	EvOrderRemoved
	EvFill
)

// Event is the interface for all sequencer events.
type Event interface {
	GetSeq() uint64
	GetTs() int64
	GetEpoch() uint64
	GetType() Type
}

// BaseEvent contains common fields for all events. Epoch identifies the
// subscription that produced the event; the sequencer drops events
// whose epoch no longer matches the active book.
type BaseEvent struct {
	Seq   uint64 `json:"seq"`
	Ts    int64  `json:"ts"`
	Epoch uint64 `json:"epoch"`
}

func (e BaseEvent) GetSeq() uint64   { return e.Seq }
func (e BaseEvent) GetTs() int64     { return e.Ts }
func (e BaseEvent) GetEpoch() uint64 { return e.Epoch }

// SnapshotEvent carries the full book state at subscription time.
type SnapshotEvent struct {
	BaseEvent
	Bids []*domain.Order `json:"bids"`
	Asks []*domain.Order `json:"asks"`
}

func (e SnapshotEvent) GetType() Type { return EvSnapshot }

// OrderAddedEvent represents a new or updated order after the snapshot.
type OrderAddedEvent struct {
	BaseEvent
	Order *domain.Order `json:"order"`
}

func (e OrderAddedEvent) GetType() Type { return EvOrderAdded }

// OrderRemovedEvent represents an order cancellation.
type OrderRemovedEvent struct {
	BaseEvent
	OrderHash string `json:"order_hash"`
}

func (e OrderRemovedEvent) GetType() Type { return EvOrderRemoved }

// FillEvent represents a (partial) fill against a resting order.
type FillEvent struct {
	BaseEvent
	OrderHash         string          `json:"order_hash"`
	FilledTakerAmount decimal.Decimal `json:"filled_taker_amount"`
}

func (e FillEvent) GetType() Type { return EvFill }
