// Package cartstore implements the in-memory shopping cart state container.
//
// The cart is intentionally not persisted: it is created empty at startup and
// its contents are lost on restart.
package cartstore

import (
	"sync"

	"github.com/norun9/mobileshop/catalog"
)

// Item pairs a product with the quantity in the cart. Quantity is always
// positive; an item whose quantity would drop to zero or below is removed
// from the cart instead.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Store holds the ordered collection of cart items. It is safe for
// concurrent use; every operation is atomic with respect to the collection.
type Store struct {
	mu    sync.RWMutex
	items []Item

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New returns an empty cart.
func New() *Store {
	return &Store{subs: make(map[int]func())}
}

// AddItem adds quantity of product to the cart. If an item for the product
// already exists its quantity is increased, otherwise a new item is appended.
// Insertion order is preserved. The quantity is taken as-is; callers supply
// the default of 1 when the user did not pick one.
func (s *Store) AddItem(product catalog.Product, quantity int) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, Item{Product: product, Quantity: quantity})
	}
	s.mu.Unlock()

	s.notify()
}

// RemoveItem removes the item for the given product id. Removing an id that
// is not in the cart is a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify()
}

// UpdateQuantity sets the quantity of the item for the given product id.
// A quantity of zero or less removes the item. Unknown ids are ignored.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			if quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			} else {
				s.items[i].Quantity = quantity
			}
			break
		}
	}
	s.mu.Unlock()

	s.notify()
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.notify()
}

// Items returns a snapshot copy of the cart contents in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems returns the sum of quantities across all items.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity across all items.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Subscribe registers fn to run after every completed mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
