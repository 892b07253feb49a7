// internal/domain/order/number.go
package order

import (
	"fmt"
	"time"
)

// NumberFor builds the customer-facing order number: "FD" followed by the
// last eight digits of the millisecond clock.
func NumberFor(t time.Time) string {
	ms := fmt.Sprintf("%08d", t.UnixMilli())
	return "FD" + ms[len(ms)-8:]
}
