package relayer

import (
	"testing"

	"orderbook_go/internal/event"
)

func testWorker(t *testing.T) (*Worker, chan event.Event) {
	t.Helper()
	inbox := make(chan event.Event, 16)
	seq := uint64(0)
	w := NewWorker("wss://relayer.example.com/ws", inbox, &seq)
	// Not connected: Subscribe only records the active subscription.
	if err := w.Subscribe("0xbase", "0xquote", 3); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	return w, inbox
}

func recvEvent(t *testing.T, inbox chan event.Event) event.Event {
	t.Helper()
	select {
	case ev := <-inbox:
		return ev
	default:
		t.Fatal("expected an event in the inbox")
		return nil
	}
}

func TestWorker_HandleMessage(t *testing.T) {
	t.Run("Snapshot", func(t *testing.T) {
		w, inbox := testWorker(t)
		w.handleMessage([]byte(`{
			"type": "snapshot",
			"channel": "orderbook",
			"requestId": 1,
			"payload": {
				"bids": [{
					"maker": "0xmaker",
					"makerTokenAddress": "0xbase",
					"takerTokenAddress": "0xquote",
					"makerTokenAmount": "1000000000000000000",
					"takerTokenAmount": "10000000000000000000",
					"expirationUnixTimestampSec": "1700000000",
					"salt": "1"
				}],
				"asks": []
			}
		}`))

		ev := recvEvent(t, inbox)
		snap, ok := ev.(*event.SnapshotEvent)
		if !ok {
			t.Fatalf("expected SnapshotEvent, got %T", ev)
		}
		if snap.Epoch != 3 {
			t.Errorf("event must carry the subscription epoch, got %d", snap.Epoch)
		}
		if len(snap.Bids) != 1 || len(snap.Asks) != 0 {
			t.Errorf("unexpected snapshot shape: %d bids / %d asks", len(snap.Bids), len(snap.Asks))
		}
		if snap.Bids[0].MakerTokenAmount.String() != "1000000000000000000" {
			t.Errorf("raw amount not preserved: %s", snap.Bids[0].MakerTokenAmount)
		}
	})

	t.Run("Snapshot For Superseded Request Is Dropped", func(t *testing.T) {
		w, inbox := testWorker(t)
		// Re-subscribe bumps the request id to 2.
		if err := w.Subscribe("0xbase", "0xusdc", 4); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}

		w.handleMessage([]byte(`{
			"type": "snapshot",
			"channel": "orderbook",
			"requestId": 1,
			"payload": {"bids": [], "asks": []}
		}`))

		select {
		case ev := <-inbox:
			t.Fatalf("stale snapshot must be dropped, got %T", ev)
		default:
		}
	})

	t.Run("Update", func(t *testing.T) {
		w, inbox := testWorker(t)
		w.handleMessage([]byte(`{
			"type": "update",
			"channel": "orderbook",
			"payload": {
				"makerTokenAddress": "0xquote",
				"takerTokenAddress": "0xbase",
				"makerTokenAmount": "12000000000000000000",
				"takerTokenAmount": "1000000000000000000",
				"expirationUnixTimestampSec": "1700000000",
				"salt": "2"
			}
		}`))

		ev := recvEvent(t, inbox)
		add, ok := ev.(*event.OrderAddedEvent)
		if !ok {
			t.Fatalf("expected OrderAddedEvent, got %T", ev)
		}
		if add.Order == nil || add.Order.MakerTokenAddress != "0xquote" {
			t.Errorf("order payload not decoded: %+v", add.Order)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		w, inbox := testWorker(t)
		w.handleMessage([]byte(`{
			"type": "remove",
			"channel": "orderbook",
			"payload": {"orderHash": "0xabc"}
		}`))

		ev := recvEvent(t, inbox)
		rm, ok := ev.(*event.OrderRemovedEvent)
		if !ok {
			t.Fatalf("expected OrderRemovedEvent, got %T", ev)
		}
		if rm.OrderHash != "0xabc" {
			t.Errorf("unexpected order hash: %s", rm.OrderHash)
		}
	})

	t.Run("Fill", func(t *testing.T) {
		w, inbox := testWorker(t)
		w.handleMessage([]byte(`{
			"type": "fill",
			"channel": "orderbook",
			"payload": {"orderHash": "0xabc", "filledTakerTokenAmount": "500000000000000000"}
		}`))

		ev := recvEvent(t, inbox)
		fill, ok := ev.(*event.FillEvent)
		if !ok {
			t.Fatalf("expected FillEvent, got %T", ev)
		}
		if fill.FilledTakerAmount.String() != "500000000000000000" {
			t.Errorf("unexpected fill amount: %s", fill.FilledTakerAmount)
		}
	})

	t.Run("Other Channel Ignored", func(t *testing.T) {
		w, inbox := testWorker(t)
		w.handleMessage([]byte(`{"type": "update", "channel": "trades", "payload": {}}`))

		select {
		case ev := <-inbox:
			t.Fatalf("non-orderbook frames must be ignored, got %T", ev)
		default:
		}
	})

	t.Run("Garbage Ignored", func(t *testing.T) {
		w, inbox := testWorker(t)
		w.handleMessage([]byte(`not even json`))
		w.handleMessage([]byte(`{"type": "snapshot", "channel": "orderbook", "requestId": 1, "payload": "nope"}`))

		select {
		case ev := <-inbox:
			t.Fatalf("malformed frames must be ignored, got %T", ev)
		default:
		}
	})
}

func TestWorker_SeqMonotonic(t *testing.T) {
	w, inbox := testWorker(t)
	frame := []byte(`{
		"type": "remove",
		"channel": "orderbook",
		"payload": {"orderHash": "0xabc"}
	}`)
	w.handleMessage(frame)
	w.handleMessage(frame)

	first := recvEvent(t, inbox)
	second := recvEvent(t, inbox)
	if second.GetSeq() != first.GetSeq()+1 {
		t.Errorf("sequence numbers must be monotonic: %d then %d", first.GetSeq(), second.GetSeq())
	}
}
