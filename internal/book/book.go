package book

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"orderbook_go/internal/domain"
	"orderbook_go/internal/infra"
)

// Book holds all state derived from one subscription to one pair. It is
// replaced wholesale on pair change, never mutated field-by-field, so a
// stale detail can never survive into the next pair.
type Book struct {
	pair    domain.TradingPair
	bids    *OrderedSide
	asks    *OrderedSide
	details *OrderIndex
	filled  map[string]decimal.Decimal // accumulated taker fill per order
}

func newBook(pair domain.TradingPair) *Book {
	return &Book{
		pair:    pair,
		bids:    NewOrderedSide(Bids),
		asks:    NewOrderedSide(Asks),
		details: NewOrderIndex(),
		filled:  map[string]decimal.Decimal{},
	}
}

// Controller applies feed events to the Book for the active pair.
//
// All mutations arrive through the single-writer sequencer goroutine;
// the mutex exists so readers (rendering, summaries) on other
// goroutines never observe a partially-applied snapshot.
type Controller struct {
	mu    sync.RWMutex
	book  *Book
	epoch uint64
	ready bool
}

// NewController creates a controller with an empty book for the pair.
// The controller starts at epoch 1 in the loading state.
func NewController(pair domain.TradingPair) *Controller {
	return &Controller{
		book:  newBook(pair),
		epoch: 1,
	}
}

// Epoch returns the current subscription epoch. Events stamped with any
// other epoch belong to a previous pair and must be discarded.
func (c *Controller) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// Pair returns the active trading pair.
func (c *Controller) Pair() domain.TradingPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.book.pair
}

// Ready reports whether the initial snapshot has been applied.
func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// SetPair discards the entire book (sides and detail cache) and
// allocates a fresh empty one for the new pair. Returns the new epoch
// for the caller to stamp onto its fresh feed subscription.
func (c *Controller) SetPair(pair domain.TradingPair) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.book = newBook(pair)
	c.ready = false
	c.epoch++
	slog.Info("Book reset for new pair",
		slog.String("pair", pair.Symbol()),
		slog.Uint64("epoch", c.epoch))
	return c.epoch
}

// ApplySnapshot loads the full book state delivered at subscription
// time. Orders that cannot be priced never abort the snapshot.
func (c *Controller) ApplySnapshot(bids, asks []*domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range bids {
		c.insertLocked(o, c.book.bids)
	}
	for _, o := range asks {
		c.insertLocked(o, c.book.asks)
	}
	c.ready = true
	infra.GlobalMetrics.RecordSnapshot()
	slog.Info("Snapshot applied",
		slog.String("pair", c.book.pair.Symbol()),
		slog.Int("bids", c.book.bids.Len()),
		slog.Int("asks", c.book.asks.Len()))
}

// ApplyOrder inserts or re-ranks a single order from an incremental
// update. The side is chosen by the order's own pricing direction.
func (c *Controller) ApplyOrder(order *domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	detail, err := c.detailLocked(order)
	if err != nil {
		return
	}
	side := c.book.asks
	if detail.Bid {
		side = c.book.bids
	}
	c.insertSideLocked(order, detail, side)
}

// RemoveOrder deletes an order (cancel) by identity from whichever side
// holds it. Removing an unknown identity is a no-op.
func (c *Controller) RemoveOrder(orderHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(orderHash)
}

// ApplyFill accumulates a taker-side fill against an order. An order
// whose taker amount is fully consumed leaves the book.
func (c *Controller) ApplyFill(orderHash string, filledTakerAmount decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var order *domain.Order
	if e, ok := c.book.bids.byID[orderHash]; ok {
		order = e.order
	} else if e, ok := c.book.asks.byID[orderHash]; ok {
		order = e.order
	} else {
		return
	}

	total := c.book.filled[orderHash].Add(filledTakerAmount)
	c.book.filled[orderHash] = total
	infra.GlobalMetrics.RecordFill()

	if total.GreaterThanOrEqual(order.TakerTokenAmount) {
		c.removeLocked(orderHash)
	}
}

// BidsInOrder returns the bids best-first (highest price first).
func (c *Controller) BidsInOrder() []*domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.book.bids.InOrder()
}

// AsksInOrder returns the asks best-first (lowest price first).
func (c *Controller) AsksInOrder() []*domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.book.asks.InOrder()
}

// Depth returns the current number of bids and asks.
func (c *Controller) Depth() (bidCount, askCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.book.bids.Len(), c.book.asks.Len()
}

// BestBid returns the highest-priced bid, if one is priced.
func (c *Controller) BestBid() (*domain.Order, decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, detail, ok := c.book.bids.Best()
	if !ok || !detail.Priced {
		return nil, decimal.Decimal{}, false
	}
	return order, detail.Price, true
}

// BestAsk returns the lowest-priced ask, if one is priced.
func (c *Controller) BestAsk() (*domain.Order, decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, detail, ok := c.book.asks.Best()
	if !ok || !detail.Priced {
		return nil, decimal.Decimal{}, false
	}
	return order, detail.Price, true
}

// MidPrice derives the mid-market price. ok is false when no price can
// be inferred (the NaN case: no priced asks).
func (c *Controller) MidPrice() (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return midPrice(c.book.bids, c.book.asks)
}

// MidPriceString renders the mid price, "NaN" when absent. Matches the
// displayed convention for an empty market.
func (c *Controller) MidPriceString() string {
	mid, ok := c.MidPrice()
	if !ok {
		return "NaN"
	}
	return mid.String()
}

// Detail returns the cached pricing view for an order identity.
func (c *Controller) Detail(orderHash string) (*domain.OrderDetail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.book.details.Get(orderHash)
}

// detailLocked is the read-through path: cached detail if present,
// otherwise computed via the oracle and cached before any insertion,
// so side comparators never trigger cache writes.
func (c *Controller) detailLocked(order *domain.Order) (*domain.OrderDetail, error) {
	id := order.Hash()
	if detail, ok := c.book.details.Get(id); ok {
		return detail, nil
	}

	detail, err := ComputeDetail(order, c.book.pair)
	if err != nil {
		if errors.Is(err, domain.ErrUnpriceable) {
			infra.GlobalMetrics.RecordUnpriceable()
			slog.Warn("Dropping order with legs outside active pair",
				slog.String("order", id),
				slog.String("pair", c.book.pair.Symbol()))
		}
		return nil, err
	}
	if !detail.Priced {
		infra.GlobalMetrics.RecordUnpriceable()
	}
	c.book.details.Put(id, detail)
	return detail, nil
}

func (c *Controller) insertLocked(order *domain.Order, side *OrderedSide) {
	detail, err := c.detailLocked(order)
	if err != nil {
		return
	}
	c.insertSideLocked(order, detail, side)
}

func (c *Controller) insertSideLocked(order *domain.Order, detail *domain.OrderDetail, side *OrderedSide) {
	if side.Contains(order.Hash()) {
		infra.GlobalMetrics.RecordDuplicate()
		return
	}
	side.Insert(order, detail)
	infra.GlobalMetrics.RecordInsert()
}

func (c *Controller) removeLocked(orderHash string) {
	_, removedBid := c.book.bids.Remove(orderHash)
	_, removedAsk := c.book.asks.Remove(orderHash)
	if removedBid || removedAsk {
		c.book.details.Delete(orderHash)
		delete(c.book.filled, orderHash)
		infra.GlobalMetrics.RecordRemoval()
	}
}
