// internal/domain/cart/quantity.go
package cart

import "context"

// ChangeQuantity adds delta to the quantity of the line with itemID.
// A line that drops to zero or below is removed and a line never grows past
// MaxQuantity. The cart is saved after every change. An unknown id leaves
// the cart untouched and reports changed=false.
func (c *Cart) ChangeQuantity(ctx context.Context, itemID string, delta int) (bool, error) {
	i := c.indexOf(itemID)
	if i < 0 {
		return false, nil
	}

	next := MaxQuantity
	switch {
	case delta <= -MaxQuantity:
		next = 0
	case delta < MaxQuantity:
		next = clampQuantity(c.items[i].Quantity + delta)
	}
	if next <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	} else {
		c.items[i].Quantity = next
	}

	return true, c.Save(ctx)
}
