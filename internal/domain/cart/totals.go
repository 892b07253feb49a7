// internal/domain/cart/totals.go
package cart

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Pricing carries the checkout constants applied to every cart
type Pricing struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

// DefaultPricing is 10% tax and a flat 29.00 delivery fee
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:     decimal.RequireFromString("0.10"),
		DeliveryFee: decimal.RequireFromString("29.00"),
	}
}

// Totals are kept at full precision. Rounding happens in Display and AmountMinor.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// DisplayTotals are two-decimal strings for presentation
type DisplayTotals struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"delivery_fee"`
	Total       string `json:"total"`
}

// ComputeTotals sums the cart. The delivery fee applies even to an empty cart.
func ComputeTotals(items []Item, pricing Pricing) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	tax := subtotal.Mul(pricing.TaxRate)
	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: pricing.DeliveryFee,
		Total:       subtotal.Add(pricing.DeliveryFee).Add(tax),
	}
}

// Display formats every figure with two decimals
func (t Totals) Display() DisplayTotals {
	return DisplayTotals{
		Subtotal:    t.Subtotal.StringFixed(2),
		Tax:         t.Tax.StringFixed(2),
		DeliveryFee: t.DeliveryFee.StringFixed(2),
		Total:       t.Total.StringFixed(2),
	}
}

// AmountMinor is the total in paise: rounded to two decimals, times 100
func (t Totals) AmountMinor() int64 {
	return t.Total.Round(2).Mul(hundred).IntPart()
}
