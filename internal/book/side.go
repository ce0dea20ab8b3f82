package book

import (
	"github.com/google/btree"

	"orderbook_go/internal/domain"
)

const sideBTreeDegree = 32

// Direction selects the sort order of a side.
type Direction int

const (
	// Bids sort best-first by highest price.
	Bids Direction = iota
	// Asks sort best-first by lowest price.
	Asks
)

// entry pairs an order with its resolved detail. The detail is fixed at
// insert time, so tree comparisons never touch the detail cache.
type entry struct {
	order  *domain.Order
	detail *domain.OrderDetail
	dir    Direction
}

// Less orders entries best-first: priced before unpriced, then by price
// in the side's direction, then by identity. The identity tie-break
// keeps the order strict and total for equal-price distinct orders.
func (e *entry) Less(than btree.Item) bool {
	other := than.(*entry)

	if e.detail.Priced != other.detail.Priced {
		return e.detail.Priced
	}
	if e.detail.Priced {
		if cmp := e.detail.Price.Cmp(other.detail.Price); cmp != 0 {
			if e.dir == Bids {
				return cmp > 0
			}
			return cmp < 0
		}
	}
	return e.order.Hash() < other.order.Hash()
}

// OrderedSide is one side of the book: an ordered, duplicate-free
// collection of orders. Ranking is done on decimal prices only, never
// on raw integer amounts or floats. Not goroutine-safe; the owning
// Book's controller provides the mutual-exclusion boundary.
type OrderedSide struct {
	dir  Direction
	tree *btree.BTree
	byID map[string]*entry
}

// NewOrderedSide creates an empty side with the given direction.
func NewOrderedSide(dir Direction) *OrderedSide {
	return &OrderedSide{
		dir:  dir,
		tree: btree.New(sideBTreeDegree),
		byID: make(map[string]*entry),
	}
}

// Insert adds an order with its resolved detail. Inserting an identity
// that is already present never creates a second node: the existing
// entry is re-ranked under the new detail instead.
func (s *OrderedSide) Insert(order *domain.Order, detail *domain.OrderDetail) {
	id := order.Hash()
	if existing, ok := s.byID[id]; ok {
		if existing.detail == detail {
			return
		}
		s.tree.Delete(existing)
	}
	e := &entry{order: order, detail: detail, dir: s.dir}
	s.byID[id] = e
	s.tree.ReplaceOrInsert(e)
}

// Contains reports whether an order identity is present.
func (s *OrderedSide) Contains(orderHash string) bool {
	_, ok := s.byID[orderHash]
	return ok
}

// Remove deletes an order by identity. Returns the removed order, or
// false if the identity was not present.
func (s *OrderedSide) Remove(orderHash string) (*domain.Order, bool) {
	e, ok := s.byID[orderHash]
	if !ok {
		return nil, false
	}
	delete(s.byID, orderHash)
	s.tree.Delete(e)
	return e.order, true
}

// Best returns the best-ranked order and its detail: highest price for
// bids, lowest for asks. Unpriced orders rank after all priced ones, so
// the best entry is priced whenever any priced order exists.
func (s *OrderedSide) Best() (*domain.Order, *domain.OrderDetail, bool) {
	item := s.tree.Min()
	if item == nil {
		return nil, nil, false
	}
	e := item.(*entry)
	return e.order, e.detail, true
}

// InOrder returns the full best-first sequence as a point-in-time copy.
func (s *OrderedSide) InOrder() []*domain.Order {
	orders := make([]*domain.Order, 0, s.tree.Len())
	s.tree.Ascend(func(item btree.Item) bool {
		orders = append(orders, item.(*entry).order)
		return true
	})
	return orders
}

// Len returns the number of orders on the side.
func (s *OrderedSide) Len() int {
	return s.tree.Len()
}
