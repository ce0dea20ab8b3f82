package book

import "orderbook_go/internal/domain"

// OrderIndex memoizes computed order details keyed by order identity.
// It is scoped to exactly one Book and is discarded wholesale on pair
// change, so entries can never leak across pairs. Read-through is the
// caller's job: Get, then compute and Put on a miss.
type OrderIndex struct {
	details map[string]*domain.OrderDetail
}

// NewOrderIndex creates an empty index.
func NewOrderIndex() *OrderIndex {
	return &OrderIndex{details: make(map[string]*domain.OrderDetail)}
}

// Get returns the cached detail for an order identity, if present.
func (idx *OrderIndex) Get(orderHash string) (*domain.OrderDetail, bool) {
	d, ok := idx.details[orderHash]
	return d, ok
}

// Put stores the detail for an order identity.
func (idx *OrderIndex) Put(orderHash string, detail *domain.OrderDetail) {
	idx.details[orderHash] = detail
}

// Delete drops the detail for a removed order.
func (idx *OrderIndex) Delete(orderHash string) {
	delete(idx.details, orderHash)
}

// Len returns the number of cached details.
func (idx *OrderIndex) Len() int {
	return len(idx.details)
}
