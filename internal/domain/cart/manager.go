// internal/domain/cart/manager.go
package cart

import (
	"context"
	"fmt"

	"github.com/your-org/foodie-backend/internal/pkg/keylock"
)

// Manager opens carts one tab at a time
type Manager struct {
	store   *Store
	locks   *keylock.Locker
	pricing Pricing
}

// NewManager creates a cart manager
func NewManager(store *Store, locks *keylock.Locker, pricing Pricing) *Manager {
	return &Manager{
		store:   store,
		locks:   locks,
		pricing: pricing,
	}
}

// Open locks the tab and loads its cart. Call release when done; every
// mutation of the returned cart must happen before that.
func (m *Manager) Open(ctx context.Context, owner Owner) (*Cart, func(), error) {
	if owner.SessionID == "" {
		return nil, nil, fmt.Errorf("session ID required for cart")
	}

	release, err := m.locks.Lock(ctx, "cart:"+owner.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	return &Cart{
		owner:   owner,
		items:   m.store.Load(ctx, owner),
		store:   m.store,
		pricing: m.pricing,
	}, release, nil
}

// With runs fn against the tab's cart while holding its lock
func (m *Manager) With(ctx context.Context, owner Owner, fn func(*Cart) error) error {
	c, release, err := m.Open(ctx, owner)
	if err != nil {
		return err
	}
	defer release()
	return fn(c)
}

// Pricing returns the constants the manager applies
func (m *Manager) Pricing() Pricing {
	return m.pricing
}
