package cart

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Store owns the authoritative in-memory snapshot for one cart and keeps
// its durable mirror in sync. Every mutation rewrites the whole snapshot
// to the mirror before returning, so each user interaction is durably
// recorded before the next one can observe stale state.
//
// Mutations never fail: malformed input is clamped, mirror write errors
// are logged and the in-memory state stays authoritative.
type Store struct {
	mu     sync.Mutex
	items  Snapshot
	mirror Mirror

	// onAdd, when set, is invoked after a successful Add. The HTTP layer
	// uses it to tell the client to open the cart drawer; it is a
	// presentation hook, not part of the state transition.
	onAdd func()
}

// NewStore builds a Store restored from the mirror. A missing or
// malformed mirror slot degrades to an empty cart; a transport failure on
// load is logged and also degrades to empty rather than failing the
// session.
func NewStore(ctx context.Context, mirror Mirror) *Store {
	s := &Store{mirror: mirror}
	if mirror == nil {
		return s
	}

	items, err := mirror.Load(ctx)
	switch {
	case err == nil:
		s.items = items
	case errors.Is(err, ErrMirrorMiss):
		// first visit, nothing stored
	default:
		log.Printf("cart mirror load failed, starting empty: %v", err)
	}
	return s
}

// SetOnAdd installs the add-notification hook.
func (s *Store) SetOnAdd(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdd = fn
}

// Snapshot returns a copy of the current line items.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Add merges the item into the cart. An existing line with the same ID
// has its quantity bumped by one and keeps its at-add name, price and
// image; otherwise the item is inserted with quantity 1.
func (s *Store) Add(ctx context.Context, item LineItem) Snapshot {
	s.mu.Lock()
	if i := s.items.Find(item.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		item.Quantity = 1
		s.items = append(s.items, item)
	}
	s.save(ctx)
	snap := s.items.Clone()
	hook := s.onAdd
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return snap
}

// Remove deletes the line with the given ID. Unknown IDs are a no-op.
func (s *Store) Remove(ctx context.Context, id string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.items.Find(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.save(ctx)
	}
	return s.items.Clone()
}

// UpdateQuantity sets the quantity for a line. Values below 1 clamp to 1;
// removal only happens through Remove. Unknown IDs are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) Snapshot {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.items.Find(id); i >= 0 {
		s.items[i].Quantity = quantity
		s.save(ctx)
	}
	return s.items.Clone()
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.save(ctx)
	return nil
}

// save mirrors the current snapshot. Caller holds s.mu.
func (s *Store) save(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Save(ctx, s.items); err != nil {
		log.Printf("cart mirror save failed: %v", err)
	}
}
