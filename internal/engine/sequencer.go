package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"orderbook_go/internal/book"
	"orderbook_go/internal/event"
	"orderbook_go/internal/infra"
)

// Sequencer is the single-writer event processor for the book. All
// mutations flow through its inbox one event at a time; no two
// mutations of the same book ever interleave.
type Sequencer struct {
	inbox chan event.Event
	ctrl  *book.Controller

	// Boundary: used to notify UI or other systems of state changes
	onStateUpdate func(*book.Controller)
}

// NewSequencer creates a new sequencer instance.
func NewSequencer(inboxSize int, ctrl *book.Controller, onUpdate func(*book.Controller)) *Sequencer {
	return &Sequencer{
		inbox:         make(chan event.Event, inboxSize),
		ctrl:          ctrl,
		onStateUpdate: onUpdate,
	}
}

// Inbox returns the event channel. The feed worker sends events here.
func (s *Sequencer) Inbox() chan<- event.Event {
	return s.inbox
}

// Controller exposes the book controller for external reads.
func (s *Sequencer) Controller() *book.Controller {
	return s.ctrl
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started (Single-Thread Hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sequencer stopping...")
			return
		case ev := <-s.inbox:
			s.ProcessEvent(ev)
		}
	}
}

// ProcessEvent applies one event to the book. Exported for synchronous
// use in tests and replays; Run is the normal entry point.
func (s *Sequencer) ProcessEvent(ev event.Event) {
	// Epoch guard: an event produced for a previous subscription must
	// be discarded, never applied to the reset book.
	if ev.GetEpoch() != s.ctrl.Epoch() {
		infra.GlobalMetrics.RecordStaleEvent()
		slog.Debug("Dropping stale event",
			slog.Uint64("event_epoch", ev.GetEpoch()),
			slog.Uint64("book_epoch", s.ctrl.Epoch()))
		return
	}

	switch e := ev.(type) {
	case *event.SnapshotEvent:
		s.ctrl.ApplySnapshot(e.Bids, e.Asks)
	case *event.OrderAddedEvent:
		s.ctrl.ApplyOrder(e.Order)
		event.ReleaseOrderAddedEvent(e)
	case *event.OrderRemovedEvent:
		s.ctrl.RemoveOrder(e.OrderHash)
	case *event.FillEvent:
		s.ctrl.ApplyFill(e.OrderHash, e.FilledTakerAmount)
		event.ReleaseFillEvent(e)
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
		return
	}

	infra.GlobalMetrics.RecordEvent()

	if s.onStateUpdate != nil {
		s.onStateUpdate(s.ctrl)
	}
}

// DumpState writes the current book view to a file (for post-mortem).
func (s *Sequencer) DumpState(filename string) {
	slog.Info("Dumping book state...", slog.String("file", filename))

	bidCount, askCount := s.ctrl.Depth()
	data := struct {
		Pair  string `json:"pair"`
		Epoch uint64 `json:"epoch"`
		Ready bool   `json:"ready"`
		Bids  int    `json:"bids"`
		Asks  int    `json:"asks"`
		Mid   string `json:"mid"`
	}{
		Pair:  s.ctrl.Pair().Symbol(),
		Epoch: s.ctrl.Epoch(),
		Ready: s.ctrl.Ready(),
		Bids:  bidCount,
		Asks:  askCount,
		Mid:   s.ctrl.MidPriceString(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
