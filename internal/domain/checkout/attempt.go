// internal/domain/checkout/attempt.go
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/foodie-backend/internal/domain/cart"
	"github.com/your-org/foodie-backend/internal/infrastructure/database/redis"
)

// State is a step of the order submission flow
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateInvalid        State = "invalid"
	StateNotIntegrated  State = "not_integrated"
	StatePaymentPending State = "payment_pending"
	StateCancelled      State = "cancelled"
	StateFulfilled      State = "fulfilled"
)

// Terminal reports whether no further transition is allowed
func (s State) Terminal() bool {
	return s == StateCancelled || s == StateFulfilled
}

// Cancel reasons
const (
	ReasonDismissed = "dismissed"
	ReasonTimeout   = "timeout"
)

// Attempt is one trip through the payment widget
type Attempt struct {
	ID              string             `json:"id"`
	SessionID       string             `json:"-"`
	ClientID        string             `json:"-"`
	State           State              `json:"state"`
	Method          string             `json:"method"`
	Delivery        DeliveryForm       `json:"delivery"`
	AmountMinor     int64              `json:"amount"`
	Currency        string             `json:"currency"`
	Totals          cart.DisplayTotals `json:"totals"`
	RazorpayOrderID string             `json:"razorpay_order_id,omitempty"`
	OrderNumber     string             `json:"order_number,omitempty"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	ExpiresAt       time.Time          `json:"expires_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// storedAttempt keeps the owner fields that the API view hides
type storedAttempt struct {
	Attempt
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
}

// Expired reports whether a pending attempt has outlived its deadline
func (a *Attempt) Expired(now time.Time) bool {
	return a.State == StatePaymentPending && !now.Before(a.ExpiresAt)
}

// AttemptStore keeps attempts in Redis. Records outlive their deadline by
// the retention period so late callbacks still find a terminal state.
type AttemptStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewAttemptStore creates an attempt store
func NewAttemptStore(client *redis.Client, retention time.Duration) *AttemptStore {
	return &AttemptStore{client: client, retention: retention}
}

func attemptKey(id string) string {
	return fmt.Sprintf("checkout:attempt:%s", id)
}

// Save writes the attempt
func (s *AttemptStore) Save(ctx context.Context, a *Attempt) error {
	ttl := time.Until(a.ExpiresAt) + s.retention
	if ttl <= 0 {
		ttl = s.retention
	}
	rec := storedAttempt{Attempt: *a, SessionID: a.SessionID, ClientID: a.ClientID}
	if err := s.client.SetJSON(ctx, attemptKey(a.ID), rec, ttl); err != nil {
		return fmt.Errorf("failed to save payment attempt: %w", err)
	}
	return nil
}

// Get loads an attempt by id
func (s *AttemptStore) Get(ctx context.Context, id string) (*Attempt, error) {
	var rec storedAttempt
	found, err := s.client.GetJSON(ctx, attemptKey(id), &rec)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment attempt: %w", err)
	}
	if !found {
		return nil, ErrAttemptNotFound
	}
	a := rec.Attempt
	a.SessionID = rec.SessionID
	a.ClientID = rec.ClientID
	return &a, nil
}
