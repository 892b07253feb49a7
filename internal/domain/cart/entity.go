// internal/domain/cart/entity.go
package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// SessionKey holds the tab-scoped cart snapshot
	SessionKey = "checkoutCart"
	// DurableKey holds the device-scoped cart snapshot
	DurableKey = "foodie:cart"

	DefaultName        = "Item"
	DefaultPlaceholder = "../imgs/placeholder.png"

	// MaxQuantity caps a single line. Larger quantities saturate.
	MaxQuantity = 999
)

// Item is one line in the cart. Quantity is always between 1 and MaxQuantity.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

// LineTotal is quantity times price
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// RawItem is an item as it arrives from storage or a request body.
// Every field is optional and loosely typed.
type RawItem struct {
	ID       json.RawMessage `json:"id"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	Quantity json.RawMessage `json:"quantity"`
	Image    string          `json:"image"`
}

// Owner identifies the tab and the device a cart belongs to
type Owner struct {
	SessionID string
	ClientID  string
}

func (o Owner) String() string {
	return o.SessionID
}

// normalize converts a raw item. ok is false when the item must be dropped.
func (r RawItem) normalize(placeholder string) (Item, bool) {
	id := rawString(r.ID)
	if id == "" {
		return Item{}, false
	}

	qty := 1
	if q, present := rawInt(r.Quantity); present {
		qty = q
	}
	if qty <= 0 {
		return Item{}, false
	}

	item := Item{
		ID:       id,
		Name:     strings.TrimSpace(r.Name),
		Price:    NormalizePrice(rawValue(r.Price)),
		Quantity: clampQuantity(qty),
		Image:    strings.TrimSpace(r.Image),
	}
	if item.Name == "" {
		item.Name = DefaultName
	}
	if item.Image == "" {
		item.Image = placeholder
	}
	return item, true
}

// normalizeItems applies the ingestion rules: no id, non-positive quantity
// and repeated ids are dropped, the first occurrence of an id wins.
func normalizeItems(raws []RawItem, placeholder string) []Item {
	items := make([]Item, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		item, ok := raw.normalize(placeholder)
		if !ok {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items
}

// ToRaw converts an item back into its loose form
func (i Item) ToRaw() RawItem {
	id, _ := json.Marshal(i.ID)
	qty, _ := json.Marshal(i.Quantity)
	return RawItem{
		ID:       id,
		Name:     i.Name,
		Price:    json.RawMessage(i.Price.String()),
		Quantity: qty,
		Image:    i.Image,
	}
}

func rawValue(msg json.RawMessage) interface{} {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

func rawString(msg json.RawMessage) string {
	switch v := rawValue(msg).(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func rawInt(msg json.RawMessage) (int, bool) {
	var s string
	switch v := rawValue(msg).(type) {
	case nil:
		return 0, false
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return clampQuantity(n), true
	}
	// out of int range, exponents and fractions land here
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= MaxQuantity:
		return MaxQuantity, true
	case f <= 0:
		return 0, true
	}
	return int(f), true
}

// clampQuantity saturates q at MaxQuantity. Non-positive values pass through
// so callers can drop the line.
func clampQuantity(q int) int {
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
