// internal/domain/cart/cart.go
package cart

import (
	"context"
)

// Cart is the in-memory cart of one tab. It is only handed out while the
// tab's lock is held, so methods do not synchronize.
type Cart struct {
	owner   Owner
	items   []Item
	store   *Store
	pricing Pricing
}

// Owner returns the tab and device the cart belongs to
func (c *Cart) Owner() Owner {
	return c.owner
}

// Items returns a copy of the lines in order
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Totals recomputes subtotal, tax and total from the current lines
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.items, c.pricing)
}

// TotalQuantity is the sum of quantities, shown on the header badge
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Save persists the current lines to both scopes
func (c *Cart) Save(ctx context.Context) error {
	return c.store.Save(ctx, c.owner, c.items)
}

// Replace swaps in a new set of lines, e.g. when a catalog page hands the
// cart over to checkout
func (c *Cart) Replace(ctx context.Context, raws []RawItem) error {
	c.items = normalizeItems(raws, c.store.Placeholder())
	return c.Save(ctx)
}

// Add puts an item in the cart. An id already present gains the quantity
// instead, saturating at MaxQuantity.
func (c *Cart) Add(ctx context.Context, raw RawItem) (bool, error) {
	item, ok := raw.normalize(c.store.Placeholder())
	if !ok {
		return false, nil
	}
	if i := c.indexOf(item.ID); i >= 0 {
		c.items[i].Quantity = clampQuantity(c.items[i].Quantity + item.Quantity)
	} else {
		c.items = append(c.items, item)
	}
	return true, c.Save(ctx)
}

// Clear drops the tab snapshot and persists an empty cart
func (c *Cart) Clear(ctx context.Context) error {
	clearErr := c.store.ClearSession(ctx, c.owner)
	c.items = []Item{}
	if err := c.Save(ctx); err != nil {
		return err
	}
	return clearErr
}

func (c *Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
