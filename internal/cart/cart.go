// Package cart implements the client-side shopping cart: an ordered set of
// line items held in memory and written through to a key-value storage
// primitive after every mutation.
package cart

import (
	"encoding/json"

	"storefront/internal/pricing"
)

// StorageKey is the fixed key the cart persists under.
const StorageKey = "cb-cart"

// Item is one cart line. Items are unique by slug; price is the display
// string snapshotted from the product at add time.
type Item struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// Storage is the persistence primitive behind the cart. Load returns
// (nil, nil) when nothing is stored yet.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Store holds cart state for a single session. Reads after a mutation see
// the in-memory copy, never the persisted one, so the cart stays usable even
// when storage fails. Not safe for concurrent use.
type Store struct {
	storage Storage
	items   []Item
}

// New loads the persisted cart from storage. A missing, unreadable, or
// corrupted payload degrades to an empty cart; it never fails.
func New(storage Storage) *Store {
	s := &Store{storage: storage}

	raw, err := storage.Load(StorageKey)
	if err != nil || len(raw) == 0 {
		return s
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return s
	}
	s.items = items
	return s
}

// Add appends the item with quantity 1, or increments the quantity when the
// slug is already in the cart. Insertion order is preserved for display.
func (s *Store) Add(item Item) {
	for i := range s.items {
		if s.items[i].Slug == item.Slug {
			s.items[i].Quantity++
			s.persist()
			return
		}
	}
	item.Quantity = 1
	s.items = append(s.items, item)
	s.persist()
}

// Remove drops the item with the given slug. Absent slugs are a no-op.
func (s *Store) Remove(slug string) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.Slug != slug {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persist()
}

// SetQuantity replaces an item's quantity; anything below 1 removes the
// item entirely.
func (s *Store) SetQuantity(slug string, quantity int) {
	if quantity < 1 {
		s.Remove(slug)
		return
	}
	for i := range s.items {
		if s.items[i].Slug == slug {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.persist()
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the total quantity across all lines.
func (s *Store) Count() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Subtotal recomputes the cart total from current state on every call.
func (s *Store) Subtotal() float64 {
	lines := make([]pricing.LineItem, 0, len(s.items))
	for _, item := range s.items {
		lines = append(lines, pricing.LineItem{Price: item.Price, Quantity: item.Quantity})
	}
	return pricing.Subtotal(lines)
}

// persist writes through to storage. Failures are swallowed: the cart keeps
// working in memory for the rest of the session.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		return
	}
	_ = s.storage.Save(StorageKey, data)
}
