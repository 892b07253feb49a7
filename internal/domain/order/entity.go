// internal/domain/order/entity.go
package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/foodie-backend/internal/domain/cart"
)

// OrderStatus is the display status of an order. New orders are always Pending.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// DeliveryInfo is the delivery form captured at fulfillment
type DeliveryInfo struct {
	FullName string `gorm:"size:255;not null" json:"fullName"`
	Email    string `gorm:"size:255;not null" json:"email"`
	Phone    string `gorm:"size:32;not null" json:"phone"`
	Address  string `gorm:"type:text;not null" json:"address"`
	City     string `gorm:"size:128;not null" json:"city"`
	ZipCode  string `gorm:"size:16;not null" json:"zipCode"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`
}

// Order is an immutable record of a paid checkout
type Order struct {
	ID          string          `gorm:"primaryKey;size:36" json:"-"`
	OrderNumber string          `gorm:"uniqueIndex;not null;size:20" json:"id"`
	ClientID    string          `gorm:"index;not null;size:64" json:"-"`
	SessionID   string          `gorm:"size:64" json:"-"`
	AttemptID   string          `gorm:"uniqueIndex;size:36" json:"attempt_id,omitempty"`
	Items       []cart.Item     `gorm:"serializer:json;type:text;not null" json:"items"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"tax"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"delivery_fee"`
	Total       decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"total"`
	Currency    string          `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Status      OrderStatus     `gorm:"size:32;not null" json:"status"`

	DeliveryInfo DeliveryInfo `gorm:"embedded;embeddedPrefix:delivery_" json:"deliveryInfo"`

	PaymentID       string `gorm:"size:64" json:"payment_id,omitempty"`
	RazorpayOrderID string `gorm:"size:64" json:"razorpay_order_id,omitempty"`

	Timestamp time.Time `gorm:"column:placed_at;index;not null" json:"timestamp"`
	CreatedAt time.Time `json:"-"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// StatusClass maps the status to the badge class shown in the history list
func StatusClass(status OrderStatus) string {
	switch strings.ToLower(string(status)) {
	case "delivered":
		return "status-delivered"
	case "cancelled":
		return "status-cancelled"
	default:
		return "status-pending"
	}
}
