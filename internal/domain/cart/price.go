// internal/domain/cart/price.go
package cart

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var currencyMarker = regexp.MustCompile(`(?i)(rs\.?|inr|/-)`)

// MaxPrice is the largest unit price accepted. Anything above it is treated
// as garbage and becomes zero.
var MaxPrice = decimal.NewFromInt(1_000_000)

// PriceScale is the number of fractional digits a price keeps
const PriceScale = 4

// exponent bounds checked before any arithmetic, a literal like 1e900000000
// would otherwise be expanded digit by digit
const (
	maxPriceExponent = 9
	minPriceExponent = -18
)

// NormalizePrice turns a raw price into a non-negative decimal.
// Numbers pass through; strings lose currency symbols, Rs/INR markers,
// whitespace and thousands separators before parsing. Anything that does
// not parse, parses negative or exceeds MaxPrice becomes zero. The result
// is rounded to PriceScale fractional digits.
func NormalizePrice(raw interface{}) decimal.Decimal {
	var d decimal.Decimal
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case json.Number:
		return NormalizePrice(v.String())
	case string:
		parsed, err := decimal.NewFromString(cleanPrice(v))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	default:
		return NormalizePrice(fmt.Sprint(v))
	}

	if exp := d.Exponent(); exp > maxPriceExponent || exp < minPriceExponent {
		return decimal.Zero
	}
	if d.IsNegative() || d.GreaterThan(MaxPrice) {
		return decimal.Zero
	}
	return d.Round(PriceScale)
}

func cleanPrice(s string) string {
	s = currencyMarker.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) || r == ',' {
			return -1
		}
		return r
	}, s)
}
