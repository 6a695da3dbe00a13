package cart

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// MirrorFactory builds the durable mirror for a cart ID.
type MirrorFactory func(cartID string) Mirror

// Manager hands out one Store per cart ID. First loads of the same cart
// are collapsed with singleflight so concurrent requests share a single
// mirror read instead of racing.
type Manager struct {
	mu        sync.RWMutex
	stores    map[string]*Store
	newMirror MirrorFactory
	sfg       singleflight.Group
}

// NewManager returns a Manager using the given mirror factory. A nil
// factory produces memory-only carts, which is what the unit tests want.
func NewManager(newMirror MirrorFactory) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		newMirror: newMirror,
	}
}

// Get returns the store for a cart ID, restoring it from its mirror on
// first access.
func (m *Manager) Get(ctx context.Context, cartID string) *Store {
	m.mu.RLock()
	st, ok := m.stores[cartID]
	m.mu.RUnlock()
	if ok {
		return st
	}

	v, _, _ := m.sfg.Do(cartID, func() (interface{}, error) {
		m.mu.RLock()
		st, ok := m.stores[cartID]
		m.mu.RUnlock()
		if ok {
			return st, nil
		}

		var mirror Mirror
		if m.newMirror != nil {
			mirror = m.newMirror(cartID)
		}
		st = NewStore(ctx, mirror)

		m.mu.Lock()
		m.stores[cartID] = st
		m.mu.Unlock()
		return st, nil
	})
	return v.(*Store)
}
