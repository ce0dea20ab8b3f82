package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"orderbook_go/internal/domain"
	"orderbook_go/internal/event"
	"orderbook_go/internal/infra"
)

const (
	maxRetries       = 10
	handshakeTimeout = 10 * time.Second
	readTimeout      = 60 * time.Second
	snapshotLimit    = 100
)

// envelope is the relayer wire frame. Payload shape depends on Type.
type envelope struct {
	Type      string          `json:"type"`    // subscribe, snapshot, update, remove, fill
	Channel   string          `json:"channel"` // orderbook
	RequestID uint64          `json:"requestId"`
	Payload   json.RawMessage `json:"payload"`
}

// snapshotPayload carries the full book at subscription time.
type snapshotPayload struct {
	Bids []*domain.Order `json:"bids"`
	Asks []*domain.Order `json:"asks"`
}

// removePayload identifies a cancelled order.
type removePayload struct {
	OrderHash string `json:"orderHash"`
}

// fillPayload reports a (partial) fill against a resting order.
type fillPayload struct {
	OrderHash         string          `json:"orderHash"`
	FilledTakerAmount decimal.Decimal `json:"filledTakerTokenAmount"`
}

// subscription is the pair the worker is currently subscribed to.
// Events are stamped with its epoch so the book can discard frames
// that arrive after a pair change.
type subscription struct {
	baseTokenAddress  string
	quoteTokenAddress string
	epoch             uint64
	requestID         uint64
}

// Worker handles the relayer WebSocket connection
type Worker struct {
	url       string
	inbox     chan<- event.Event
	seq       *uint64
	conn      *websocket.Conn
	sub       *subscription
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	nextReqID atomic.Uint64
}

// NewWorker creates a new relayer feed worker
func NewWorker(url string, inbox chan<- event.Event, seq *uint64) *Worker {
	return &Worker{
		url:   url,
		inbox: inbox,
		seq:   seq,
	}
}

// Connect starts the WebSocket connection
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

// Subscribe requests the book for a pair. A superseding call replaces
// the active subscription; the relayer keys subscriptions by request
// id, so the old stream simply stops being consumed.
func (w *Worker) Subscribe(baseTokenAddress, quoteTokenAddress string, epoch uint64) error {
	sub := &subscription{
		baseTokenAddress:  baseTokenAddress,
		quoteTokenAddress: quoteTokenAddress,
		epoch:             epoch,
		requestID:         w.nextReqID.Add(1),
	}

	w.mu.Lock()
	w.sub = sub
	connected := w.connected
	w.mu.Unlock()

	if !connected {
		// The connection loop sends the subscribe frame once connected.
		return nil
	}
	return w.sendSubscribe(sub)
}

// IsConnected reports whether the socket is currently up.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("Relayer connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			infra.GlobalMetrics.RecordReconnect()
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.url, http.Header{})
	if err != nil {
		return domain.NewNetworkError("dial", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	sub := w.sub
	w.mu.Unlock()
	infra.GlobalMetrics.SetFeedConnected(true)

	// Re-issue the active subscription after every (re)connect so the
	// relayer sends a fresh snapshot for the current pair.
	if sub != nil {
		if err := w.sendSubscribe(sub); err != nil {
			w.closeConnection()
			return err
		}
	}

	slog.Info("Relayer connected", slog.String("url", w.url))
	return nil
}

func (w *Worker) sendSubscribe(sub *subscription) error {
	msg := map[string]interface{}{
		"type":      "subscribe",
		"channel":   "orderbook",
		"requestId": sub.requestID,
		"payload": map[string]interface{}{
			"baseTokenAddress":  sub.baseTokenAddress,
			"quoteTokenAddress": sub.quoteTokenAddress,
			"snapshot":          true,
			"limit":             snapshotLimit,
		},
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return w.threadSafeWrite(websocket.TextMessage, b)
}

func (w *Worker) threadSafeWrite(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return fmt.Errorf("no conn")
	}
	return w.conn.WriteMessage(msgType, data)
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		if w.conn == nil {
			w.mu.RUnlock()
			return
		}
		w.conn.SetReadDeadline(time.Now().Add(readTimeout))
		w.mu.RUnlock()

		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *Worker) handleMessage(msg []byte) {
	var env envelope
	if json.Unmarshal(msg, &env) != nil || env.Channel != "orderbook" {
		return
	}

	w.mu.RLock()
	sub := w.sub
	w.mu.RUnlock()
	if sub == nil {
		return
	}

	base := event.BaseEvent{
		Seq:   atomic.AddUint64(w.seq, 1),
		Ts:    time.Now().UnixMicro(),
		Epoch: sub.epoch,
	}

	switch env.Type {
	case "snapshot":
		// Frames for superseded subscriptions are dropped here; the
		// epoch guard in the sequencer catches anything that races past.
		if env.RequestID != sub.requestID {
			return
		}
		var p snapshotPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			slog.Warn("Bad snapshot payload", slog.Any("error", err))
			return
		}
		w.dispatch(&event.SnapshotEvent{BaseEvent: base, Bids: p.Bids, Asks: p.Asks})

	case "update":
		var order domain.Order
		if err := json.Unmarshal(env.Payload, &order); err != nil {
			slog.Warn("Bad order payload", slog.Any("error", err))
			return
		}
		ev := event.AcquireOrderAddedEvent()
		ev.BaseEvent = base
		ev.Order = &order
		w.dispatch(ev)

	case "remove":
		var p removePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.OrderHash == "" {
			return
		}
		w.dispatch(&event.OrderRemovedEvent{BaseEvent: base, OrderHash: p.OrderHash})

	case "fill":
		var p fillPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.OrderHash == "" {
			return
		}
		ev := event.AcquireFillEvent()
		ev.BaseEvent = base
		ev.OrderHash = p.OrderHash
		ev.FilledTakerAmount = p.FilledTakerAmount
		w.dispatch(ev)
	}
}

func (w *Worker) dispatch(ev event.Event) {
	select {
	case w.inbox <- ev:
	default: // DROP
	}
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
	infra.GlobalMetrics.SetFeedConnected(false)
}

// Disconnect stops the worker and closes the connection.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
