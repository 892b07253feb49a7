// internal/domain/order/view.go
package order

import (
	"strings"
	"time"
)

// ist is Indian Standard Time, used for customer-facing dates
var ist = time.FixedZone("IST", 5*60*60+30*60)

// LineView is one item row of an order card
type LineView struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total"`
	Image     string `json:"image"`
}

// View is an order prepared for the history page and the receipt
type View struct {
	Number       string       `json:"id"`
	Status       OrderStatus  `json:"status"`
	StatusClass  string       `json:"status_class"`
	Date         string       `json:"date"`
	Timestamp    time.Time    `json:"timestamp"`
	Lines        []LineView   `json:"items"`
	Subtotal     string       `json:"subtotal"`
	Tax          string       `json:"tax"`
	DeliveryFee  string       `json:"delivery_fee"`
	Total        string       `json:"total"`
	Currency     string       `json:"currency"`
	DeliveryInfo DeliveryInfo `json:"deliveryInfo"`
	PaymentID    string       `json:"payment_id,omitempty"`
}

// FormatDate renders t like "16 Oct 2026, 02:30 pm" in IST
func FormatDate(t time.Time) string {
	s := t.In(ist).Format("2 Jan 2006, 03:04 PM")
	return s[:len(s)-2] + strings.ToLower(s[len(s)-2:])
}

// NewView builds the presentation form of o
func NewView(o *Order) View {
	lines := make([]LineView, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, LineView{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
			LineTotal: item.LineTotal().StringFixed(2),
			Image:     item.Image,
		})
	}
	return View{
		Number:       o.OrderNumber,
		Status:       o.Status,
		StatusClass:  StatusClass(o.Status),
		Date:         FormatDate(o.Timestamp),
		Timestamp:    o.Timestamp,
		Lines:        lines,
		Subtotal:     o.Subtotal.StringFixed(2),
		Tax:          o.Tax.StringFixed(2),
		DeliveryFee:  o.DeliveryFee.StringFixed(2),
		Total:        o.Total.StringFixed(2),
		Currency:     o.Currency,
		DeliveryInfo: o.DeliveryInfo,
		PaymentID:    o.PaymentID,
	}
}

// NewViews builds views for a list of orders, keeping their order
func NewViews(orders []Order) []View {
	views := make([]View, 0, len(orders))
	for i := range orders {
		views = append(views, NewView(&orders[i]))
	}
	return views
}
