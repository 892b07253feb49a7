// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/cart"
	"github.com/your-org/foodie-backend/internal/domain/order"
	"github.com/your-org/foodie-backend/internal/domain/payment"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
	"github.com/your-org/foodie-backend/internal/pkg/auth"
)

const notIntegratedMessage = "Currently only Card payment is integrated."

// PaymentGateway is the payment provider as seen by checkout
type PaymentGateway interface {
	KeyID() string
	ServerSide() bool
	CreateOrder(ctx context.Context, req payment.CreateOrderRequest) (*payment.RazorpayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// OrderBook records fulfilled orders
type OrderBook interface {
	Append(ctx context.Context, o *order.Order) error
	FindByAttempt(ctx context.Context, attemptID string) (*order.Order, error)
}

// Tokens issues and checks payment-attempt tokens
type Tokens interface {
	GenerateAttemptToken(attemptID, sessionID string, amountMinor int64) (string, time.Time, error)
	ValidateAttemptToken(token string) (*auth.AttemptClaims, error)
}

// Service drives the order submission flow
type Service struct {
	carts    *cart.Manager
	attempts *AttemptStore
	gateway  PaymentGateway
	orders   OrderBook
	tokens   Tokens
	errors   *apperror.Log
	logger   *logrus.Logger
	payment  config.PaymentConfig
	currency string
	now      func() time.Time
}

// NewService creates a new checkout service
func NewService(cfg *config.Config, carts *cart.Manager, attempts *AttemptStore, gateway PaymentGateway,
	orders OrderBook, tokens Tokens, errLog *apperror.Log, logger *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		attempts: attempts,
		gateway:  gateway,
		orders:   orders,
		tokens:   tokens,
		errors:   errLog,
		logger:   logger,
		payment:  cfg.Payment,
		currency: cfg.Checkout.Currency,
		now:      time.Now,
	}
}

// StartRequest is the submitted checkout form
type StartRequest struct {
	Delivery DeliveryForm `json:"delivery"`
	Method   string       `json:"payment_method"`
}

// StartResult is the outcome of pressing "Place order"
type StartResult struct {
	State     State                    `json:"state"`
	Message   string                   `json:"message,omitempty"`
	Attempt   *Attempt                 `json:"attempt,omitempty"`
	Token     string                   `json:"token,omitempty"`
	ExpiresAt *time.Time               `json:"expires_at,omitempty"`
	Options   *payment.CheckoutOptions `json:"options,omitempty"`
}

// SuccessRequest is the widget's success callback
type SuccessRequest struct {
	AttemptID string `json:"attempt_id" binding:"required"`
	Token     string `json:"token" binding:"required"`
	payment.SuccessPayload
}

// SuccessResult acknowledges a fulfilled attempt
type SuccessResult struct {
	Order   *order.Order `json:"order"`
	Replay  bool         `json:"replay"`
	Warning string       `json:"warning,omitempty"`
}

// ValidateForm checks the delivery form without starting an attempt
func (s *Service) ValidateForm(form DeliveryForm) (DeliveryForm, error) {
	return Validate(form)
}

// Start validates the form and, for card payments, opens a payment attempt
// for the current cart total.
func (s *Service) Start(ctx context.Context, owner cart.Owner, req StartRequest) (*StartResult, error) {
	c, release, err := s.carts.Open(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	// Validating
	delivery, err := Validate(req.Delivery)
	if err != nil {
		return &StartResult{State: StateInvalid}, err
	}
	if c.IsEmpty() {
		return &StartResult{State: StateInvalid}, &apperror.Error{
			Kind: apperror.KindCart, Op: "start checkout", Message: "Your cart is empty", Err: apperror.ErrEmptyCart,
		}
	}

	method := strings.ToLower(strings.TrimSpace(req.Method))
	if method == "" {
		method = "card"
	}
	if !s.methodEnabled(method) {
		return &StartResult{State: StateNotIntegrated, Message: notIntegratedMessage}, nil
	}

	totals := c.Totals()
	now := s.now().UTC()
	a := &Attempt{
		ID:          uuid.New().String(),
		SessionID:   owner.SessionID,
		ClientID:    owner.ClientID,
		State:       StatePaymentPending,
		Method:      method,
		Delivery:    delivery,
		AmountMinor: totals.AmountMinor(),
		Currency:    s.currency,
		Totals:      totals.Display(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.gateway.ServerSide() {
		rzp, err := s.gateway.CreateOrder(ctx, payment.CreateOrderRequest{
			Amount:   a.AmountMinor,
			Currency: a.Currency,
			Receipt:  a.ID,
			Notes:    map[string]interface{}{"session_id": owner.SessionID},
		})
		if err != nil {
			typed := &apperror.Error{Kind: apperror.KindNetwork, Op: "create payment order", Message: "Unable to reach the payment service. Please try again.", Err: err}
			s.record(typed, owner)
			return &StartResult{State: StateIdle}, typed
		}
		a.RazorpayOrderID = rzp.ID
	}

	token, expiresAt, err := s.tokens.GenerateAttemptToken(a.ID, owner.SessionID, a.AmountMinor)
	if err != nil {
		return nil, err
	}
	a.ExpiresAt = expiresAt

	if err := s.attempts.Save(ctx, a); err != nil {
		s.record(apperror.Storage("save attempt", err), owner)
		return nil, err
	}

	s.log(a).Info("payment attempt started")

	return &StartResult{
		State:     StatePaymentPending,
		Attempt:   a,
		Token:     token,
		ExpiresAt: &expiresAt,
		Options: &payment.CheckoutOptions{
			Key:         s.gateway.KeyID(),
			Amount:      a.AmountMinor,
			Currency:    a.Currency,
			Name:        s.payment.MerchantName,
			Description: s.payment.Description,
			OrderID:     a.RazorpayOrderID,
			Prefill: payment.Prefill{
				Name:    delivery.FullName,
				Email:   delivery.Email,
				Contact: delivery.Phone,
			},
			Theme: payment.Theme{Color: s.payment.ThemeColor},
		},
	}, nil
}

// Succeed fulfils a pending attempt: the order is built from the cart as
// it is now, appended to the history and the cart is cleared. Repeating
// the callback returns the same order.
func (s *Service) Succeed(ctx context.Context, owner cart.Owner, req SuccessRequest) (*SuccessResult, error) {
	c, release, err := s.carts.Open(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := s.loadOwned(ctx, owner, req.AttemptID)
	if err != nil {
		return nil, err
	}

	switch a.State {
	case StateFulfilled:
		o, err := s.orders.FindByAttempt(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		return &SuccessResult{Order: o, Replay: true}, nil
	case StateCancelled:
		s.log(a).WithField("razorpay_payment_id", req.RazorpayPaymentID).
			Error("payment reported for a cancelled attempt, needs reconciliation")
		return nil, ErrAttemptCancelled
	}

	// an earlier callback may have stored the order but not the attempt
	if o, err := s.orders.FindByAttempt(ctx, a.ID); err == nil {
		s.markFulfilled(ctx, owner, a, o.OrderNumber)
		return &SuccessResult{Order: o, Replay: true}, nil
	} else if !errors.Is(err, order.ErrOrderNotFound) {
		return nil, err
	}

	claims, err := s.tokens.ValidateAttemptToken(req.Token)
	if err != nil {
		if auth.IsExpired(err) {
			return nil, s.expire(ctx, a, req.RazorpayPaymentID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.AttemptID != a.ID || claims.SessionID != owner.SessionID {
		return nil, ErrInvalidToken
	}

	if a.RazorpayOrderID != "" {
		if req.RazorpayOrderID != a.RazorpayOrderID ||
			!s.gateway.VerifySignature(a.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			s.log(a).WithField("razorpay_payment_id", req.RazorpayPaymentID).Warn("payment signature mismatch")
			return nil, ErrInvalidSignature
		}
	}

	totals := c.Totals()
	if totals.AmountMinor() != a.AmountMinor {
		s.log(a).WithField("cart_amount", totals.AmountMinor()).Warn("cart changed while payment was open")
	}

	now := s.now().UTC()
	o := &order.Order{
		ClientID:        owner.ClientID,
		SessionID:       owner.SessionID,
		AttemptID:       a.ID,
		OrderNumber:     order.NumberFor(now),
		Items:           c.Items(),
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		DeliveryFee:     totals.DeliveryFee,
		Total:           totals.Total,
		Currency:        a.Currency,
		Status:          order.OrderStatusPending,
		DeliveryInfo:    toDeliveryInfo(a.Delivery),
		PaymentID:       req.RazorpayPaymentID,
		RazorpayOrderID: a.RazorpayOrderID,
		Timestamp:       now,
	}
	if err := s.orders.Append(ctx, o); err != nil {
		s.record(apperror.Storage("append order", err), owner)
		return nil, err
	}

	result := &SuccessResult{Order: o}
	if err := c.Clear(ctx); err != nil {
		result.Warning = apperror.UserMessage(apperror.KindStorage)
	}

	s.markFulfilled(ctx, owner, a, o.OrderNumber)
	s.log(a).WithField("order_number", o.OrderNumber).Info("payment attempt fulfilled")
	return result, nil
}

func (s *Service) markFulfilled(ctx context.Context, owner cart.Owner, a *Attempt, number string) {
	a.State = StateFulfilled
	a.OrderNumber = number
	a.UpdatedAt = s.now().UTC()
	if err := s.attempts.Save(ctx, a); err != nil {
		s.record(apperror.Storage("save attempt", err), owner)
	}
}

// Cancel records that the user dismissed the payment widget
func (s *Service) Cancel(ctx context.Context, owner cart.Owner, attemptID string) (*Attempt, error) {
	_, release, err := s.carts.Open(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	a, err := s.loadOwned(ctx, owner, attemptID)
	if err != nil {
		return nil, err
	}

	switch a.State {
	case StateCancelled:
		return a, nil
	case StateFulfilled:
		return a, ErrAttemptFulfilled
	}

	if err := s.transitionCancelled(ctx, a, ReasonDismissed); err != nil {
		return nil, err
	}
	s.log(a).Info("payment attempt dismissed")
	return a, nil
}

// Get returns an attempt, moving it to cancelled if it has timed out
func (s *Service) Get(ctx context.Context, owner cart.Owner, attemptID string) (*Attempt, error) {
	return s.loadOwned(ctx, owner, attemptID)
}

// loadOwned fetches an attempt of this session and applies the timeout
func (s *Service) loadOwned(ctx context.Context, owner cart.Owner, attemptID string) (*Attempt, error) {
	a, err := s.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.SessionID != owner.SessionID {
		return nil, ErrSessionMismatch
	}
	if a.Expired(s.now()) {
		if err := s.transitionCancelled(ctx, a, ReasonTimeout); err != nil {
			return nil, err
		}
		s.log(a).Info("payment attempt timed out")
	}
	return a, nil
}

func (s *Service) expire(ctx context.Context, a *Attempt, paymentID string) error {
	if a.State == StatePaymentPending {
		if err := s.transitionCancelled(ctx, a, ReasonTimeout); err != nil {
			return err
		}
	}
	s.log(a).WithField("razorpay_payment_id", paymentID).
		Error("payment reported after the attempt expired, needs reconciliation")
	return ErrAttemptCancelled
}

func (s *Service) transitionCancelled(ctx context.Context, a *Attempt, reason string) error {
	a.State = StateCancelled
	a.CancelReason = reason
	a.UpdatedAt = s.now().UTC()
	return s.attempts.Save(ctx, a)
}

func (s *Service) methodEnabled(method string) bool {
	for _, m := range s.payment.EnabledMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

func (s *Service) record(err error, owner cart.Owner) {
	if s.errors != nil {
		s.errors.Record(err, map[string]interface{}{"session_id": owner.SessionID})
	}
}

func (s *Service) log(a *Attempt) *logrus.Entry {
	logger := s.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithFields(logrus.Fields{
		"attempt_id": a.ID,
		"session_id": a.SessionID,
		"state":      a.State,
		"amount":     a.AmountMinor,
	})
}

func toDeliveryInfo(f DeliveryForm) order.DeliveryInfo {
	return order.DeliveryInfo{
		FullName: f.FullName,
		Email:    f.Email,
		Phone:    f.Phone,
		Address:  f.Address,
		City:     f.City,
		ZipCode:  f.ZipCode,
		Notes:    f.Notes,
	}
}

// IsConflict reports errors that mean the attempt can no longer change
func IsConflict(err error) bool {
	return errors.Is(err, ErrAttemptCancelled) || errors.Is(err, ErrAttemptFulfilled)
}
