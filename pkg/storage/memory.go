package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation. It counts every storage
// operation by method name, which the engine's tests use to verify the cart
// cache and price memo contracts (a memoized read must perform zero storage
// operations).
type MemoryStore struct {
	mu          sync.Mutex
	carts       map[string]CartRecord
	itemsByCart map[string][]ItemRecord
	ops         map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:       make(map[string]CartRecord),
		itemsByCart: make(map[string][]ItemRecord),
		ops:         make(map[string]int),
	}
}

// OpCount returns how often the named Store method was called.
func (s *MemoryStore) OpCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops[method]
}

// TotalOps returns the total number of Store calls.
func (s *MemoryStore) TotalOps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.ops {
		total += n
	}
	return total
}

// ResetOps zeroes all operation counters.
func (s *MemoryStore) ResetOps() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = make(map[string]int)
}

// CreateCart implements Store.
func (s *MemoryStore) CreateCart(_ context.Context, cart CartRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["CreateCart"]++
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = time.Now()
	}
	s.carts[cart.ID] = cart
	return nil
}

// CartByID implements Store.
func (s *MemoryStore) CartByID(_ context.Context, id string) (CartRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["CartByID"]++
	cart, ok := s.carts[id]
	if !ok {
		return CartRecord{}, ErrNotFound
	}
	return cart, nil
}

// CartByUser implements Store.
func (s *MemoryStore) CartByUser(_ context.Context, userID string) (CartRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["CartByUser"]++
	for _, cart := range s.carts {
		if cart.UserID != "" && cart.UserID == userID {
			return cart, nil
		}
	}
	return CartRecord{}, ErrNotFound
}

// SetCartUser implements Store.
func (s *MemoryStore) SetCartUser(_ context.Context, cartID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["SetCartUser"]++
	cart, ok := s.carts[cartID]
	if !ok {
		return ErrNotFound
	}
	cart.UserID = userID
	s.carts[cartID] = cart
	return nil
}

// ItemsByCart implements Store. The returned slice is a copy in insertion
// order.
func (s *MemoryStore) ItemsByCart(_ context.Context, cartID string) ([]ItemRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["ItemsByCart"]++
	items := s.itemsByCart[cartID]
	out := make([]ItemRecord, len(items))
	copy(out, items)
	return out, nil
}

// InsertItem implements Store.
func (s *MemoryStore) InsertItem(_ context.Context, item ItemRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["InsertItem"]++
	s.itemsByCart[item.CartID] = append(s.itemsByCart[item.CartID], item)
	return nil
}

// UpdateItemQuantity implements Store.
func (s *MemoryStore) UpdateItemQuantity(_ context.Context, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["UpdateItemQuantity"]++
	return s.updateItem(itemID, func(item *ItemRecord) {
		item.Quantity = quantity
	})
}

// SetItemHeld implements Store.
func (s *MemoryStore) SetItemHeld(_ context.Context, itemID string, held bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["SetItemHeld"]++
	return s.updateItem(itemID, func(item *ItemRecord) {
		item.Held = held
	})
}

// DeleteItem implements Store.
func (s *MemoryStore) DeleteItem(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["DeleteItem"]++
	for cartID, items := range s.itemsByCart {
		for i, item := range items {
			if item.ID == itemID {
				s.itemsByCart[cartID] = append(items[:i:i], items[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

// DeleteItems implements Store.
func (s *MemoryStore) DeleteItems(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops["DeleteItems"]++
	delete(s.itemsByCart, cartID)
	return nil
}

// updateItem mutates the item with the given ID. Caller holds the lock.
func (s *MemoryStore) updateItem(itemID string, fn func(*ItemRecord)) error {
	for cartID, items := range s.itemsByCart {
		for i := range items {
			if items[i].ID == itemID {
				fn(&items[i])
				s.itemsByCart[cartID] = items
				return nil
			}
		}
	}
	return ErrNotFound
}
