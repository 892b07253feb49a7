package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/cart"
	"github.com/your-org/foodie-backend/internal/domain/order"
)

func TestRenderHTML(t *testing.T) {
	svc := NewService(&config.Config{App: config.AppConfig{CompanyName: "Foodie", CompanyWebsite: "https://foodie.example"}})
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }

	o := &order.Order{
		OrderNumber: "FD12345678",
		Items: []cart.Item{
			{ID: "1", Name: "Pizza <Large>", Price: decimal.NewFromInt(250), Quantity: 2},
		},
		Subtotal:    decimal.NewFromInt(500),
		Tax:         decimal.NewFromInt(50),
		DeliveryFee: decimal.NewFromInt(29),
		Total:       decimal.NewFromInt(579),
		Status:      order.OrderStatusPending,
		Timestamp:   time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		DeliveryInfo: order.DeliveryInfo{
			FullName: "Asha Patil", City: "Nashik", ZipCode: "422005",
		},
	}

	html, err := svc.RenderHTML(o)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "RCPT-FD12345678")
	assert.Contains(t, body, "₹579.00")
	assert.Contains(t, body, "₹500.00")
	assert.Contains(t, body, "status-pending")
	assert.Contains(t, body, "Pizza &lt;Large&gt;")
	assert.Contains(t, body, "16 Oct 2026, 02:30 pm")
}
