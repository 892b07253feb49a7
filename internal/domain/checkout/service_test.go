package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/cart"
	"github.com/your-org/foodie-backend/internal/domain/order"
	"github.com/your-org/foodie-backend/internal/domain/payment"
	infraredis "github.com/your-org/foodie-backend/internal/infrastructure/database/redis"
	"github.com/your-org/foodie-backend/internal/infrastructure/storage"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
	"github.com/your-org/foodie-backend/internal/pkg/auth"
	"github.com/your-org/foodie-backend/internal/pkg/keylock"
	"github.com/your-org/foodie-backend/internal/pkg/logger"
	"github.com/your-org/foodie-backend/internal/pkg/testutil"
	"gorm.io/gorm"
)

const gatewaySecret = "test-key-secret"

type fakeGateway struct {
	serverSide bool
	created    []payment.CreateOrderRequest
	fail       error
}

func (g *fakeGateway) KeyID() string    { return "rzp_test_key" }
func (g *fakeGateway) ServerSide() bool { return g.serverSide }

func (g *fakeGateway) CreateOrder(ctx context.Context, req payment.CreateOrderRequest) (*payment.RazorpayOrder, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	g.created = append(g.created, req)
	return &payment.RazorpayOrder{ID: "order_test_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(gatewaySecret, orderID, paymentID, signature)
}

type CheckoutSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	gateway *fakeGateway
	carts   *cart.Manager
	orders  *order.Service
	service *Service
	owner   cart.Owner
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutSuite))
}

func (s *CheckoutSuite) SetupTest() {
	_, rdb := testutil.NewRedis(s.T())
	s.db = testutil.NewDB(s.T(), &storage.Entry{}, &order.Order{})
	s.ctx = context.Background()

	cfg := &config.Config{
		App:      config.AppConfig{Name: "foodie"},
		Checkout: config.CheckoutConfig{Currency: "INR"},
		Payment: config.PaymentConfig{
			MerchantName:   "Foodie",
			Description:    "Order Payment",
			ThemeColor:     "#F2BD12",
			AttemptSecret:  "attempt-secret-attempt-secret-1234",
			AttemptTimeout: 15 * time.Minute,
			EnabledMethods: []string{"card"},
		},
	}

	errLog := apperror.NewLog(apperror.DefaultCapacity, nil)
	store := cart.NewStore(
		storage.NewSessionStore(rdb, time.Hour),
		storage.NewDurableStore(s.db),
		errLog, nil, "",
	)
	s.carts = cart.NewManager(store, keylock.New(), cart.DefaultPricing())
	s.orders = order.NewService(s.db, nil, nil, nil)
	s.gateway = &fakeGateway{serverSide: true}
	attempts := NewAttemptStore(infraredis.Wrap(rdb), time.Hour)

	s.service = NewService(cfg, s.carts, attempts, s.gateway, s.orders, auth.NewJWTManager(cfg), errLog, logger.Discard())
	s.owner = cart.Owner{SessionID: "tab-1", ClientID: "device-1"}
}

func (s *CheckoutSuite) seedCart(payload string) {
	var raws []cart.RawItem
	s.Require().NoError(json.Unmarshal([]byte(payload), &raws))
	s.Require().NoError(s.carts.With(s.ctx, s.owner, func(c *cart.Cart) error {
		return c.Replace(s.ctx, raws)
	}))
}

func (s *CheckoutSuite) validForm() DeliveryForm {
	return DeliveryForm{
		FullName: "Asha Patil",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 College Road",
		City:     "Nashik",
		ZipCode:  "422005",
	}
}

func (s *CheckoutSuite) start() *StartResult {
	s.seedCart(`[{"id":1,"name":"Pizza","price":250,"quantity":2}]`)
	res, err := s.service.Start(s.ctx, s.owner, StartRequest{Delivery: s.validForm(), Method: "card"})
	s.Require().NoError(err)
	s.Require().Equal(StatePaymentPending, res.State)
	return res
}

func (s *CheckoutSuite) success(res *StartResult) SuccessRequest {
	const paymentID = "pay_test_1"
	return SuccessRequest{
		AttemptID: res.Attempt.ID,
		Token:     res.Token,
		SuccessPayload: payment.SuccessPayload{
			RazorpayPaymentID: paymentID,
			RazorpayOrderID:   "order_test_1",
			RazorpaySignature: sign("order_test_1", paymentID),
		},
	}
}

func sign(orderID, paymentID string) string {
	return payment.Signature(gatewaySecret, orderID, paymentID)
}

func (s *CheckoutSuite) cartItems() []cart.Item {
	var items []cart.Item
	s.Require().NoError(s.carts.With(s.ctx, s.owner, func(c *cart.Cart) error {
		items = c.Items()
		return nil
	}))
	return items
}

func (s *CheckoutSuite) TestStartOpensCardPayment() {
	res := s.start()

	s.Equal("+91 9876543210", res.Attempt.Delivery.Phone)
	s.Equal(int64(57900), res.Options.Amount)
	s.Equal("INR", res.Options.Currency)
	s.Equal("order_test_1", res.Options.OrderID)
	s.Equal("Foodie", res.Options.Name)
	s.Equal("#F2BD12", res.Options.Theme.Color)
	s.Equal("+91 9876543210", res.Options.Prefill.Contact)
	s.NotEmpty(res.Token)

	s.Require().Len(s.gateway.created, 1)
	s.Equal(res.Attempt.ID, s.gateway.created[0].Receipt)
}

func (s *CheckoutSuite) TestSuccessPlacesOneOrderAndClearsCart() {
	res := s.start()

	out, err := s.service.Succeed(s.ctx, s.owner, s.success(res))
	s.Require().NoError(err)
	s.False(out.Replay)
	s.Equal(order.OrderStatusPending, out.Order.Status)
	s.Equal("579.00", out.Order.Total.StringFixed(2))
	s.Equal("+91 9876543210", out.Order.DeliveryInfo.Phone)
	s.Len(out.Order.Items, 1)

	orders, err := s.orders.List(s.ctx, s.owner.ClientID)
	s.Require().NoError(err)
	s.Len(orders, 1)
	s.Empty(s.cartItems())

	a, err := s.service.Get(s.ctx, s.owner, res.Attempt.ID)
	s.Require().NoError(err)
	s.Equal(StateFulfilled, a.State)
	s.Equal(out.Order.OrderNumber, a.OrderNumber)
}

func (s *CheckoutSuite) TestSuccessIsIdempotent() {
	res := s.start()
	req := s.success(res)

	first, err := s.service.Succeed(s.ctx, s.owner, req)
	s.Require().NoError(err)
	second, err := s.service.Succeed(s.ctx, s.owner, req)
	s.Require().NoError(err)

	s.True(second.Replay)
	s.Equal(first.Order.OrderNumber, second.Order.OrderNumber)

	orders, err := s.orders.List(s.ctx, s.owner.ClientID)
	s.Require().NoError(err)
	s.Len(orders, 1)
}

func (s *CheckoutSuite) TestInvalidFormStaysOnPage() {
	s.seedCart(`[{"id":1,"name":"Pizza","price":250,"quantity":1}]`)
	form := s.validForm()
	form.Email = "not-an-email"
	form.ZipCode = "4220"

	res, err := s.service.Start(s.ctx, s.owner, StartRequest{Delivery: form, Method: "card"})

	var verr *apperror.FormError
	s.Require().ErrorAs(err, &verr)
	s.Equal(StateInvalid, res.State)
	s.Equal("Please enter a valid email address", verr.Fields["email"])
	s.Equal("Pincode must be 6 digits", verr.Fields["zipCode"])
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
	s.Empty(s.gateway.created)
}

func (s *CheckoutSuite) TestEmptyCartIsRefused() {
	_, err := s.service.Start(s.ctx, s.owner, StartRequest{Delivery: s.validForm(), Method: "card"})
	s.Require().Error(err)
	s.Equal(apperror.KindCart, apperror.KindOf(err))
	s.True(errors.Is(err, apperror.ErrEmptyCart))
}

func (s *CheckoutSuite) TestOtherMethodsAreNotIntegrated() {
	s.seedCart(`[{"id":1,"name":"Pizza","price":250,"quantity":1}]`)

	res, err := s.service.Start(s.ctx, s.owner, StartRequest{Delivery: s.validForm(), Method: "upi"})
	s.Require().NoError(err)
	s.Equal(StateNotIntegrated, res.State)
	s.Equal("Currently only Card payment is integrated.", res.Message)
	s.Nil(res.Attempt)
	s.Len(s.cartItems(), 1)
}

func (s *CheckoutSuite) TestGatewayFailureIsNetworkError() {
	s.gateway.fail = errors.New("connection refused")
	s.seedCart(`[{"id":1,"name":"Pizza","price":250,"quantity":1}]`)

	_, err := s.service.Start(s.ctx, s.owner, StartRequest{Delivery: s.validForm(), Method: "card"})
	s.Require().Error(err)
	s.Equal(apperror.KindNetwork, apperror.KindOf(err))
}

func (s *CheckoutSuite) TestDismissCancelsAndLateSuccessIsRefused() {
	res := s.start()

	a, err := s.service.Cancel(s.ctx, s.owner, res.Attempt.ID)
	s.Require().NoError(err)
	s.Equal(StateCancelled, a.State)
	s.Equal(ReasonDismissed, a.CancelReason)

	_, err = s.service.Succeed(s.ctx, s.owner, s.success(res))
	s.ErrorIs(err, ErrAttemptCancelled)
	s.True(IsConflict(err))

	orders, err := s.orders.List(s.ctx, s.owner.ClientID)
	s.Require().NoError(err)
	s.Empty(orders)
	s.Len(s.cartItems(), 1)
}

func (s *CheckoutSuite) TestPendingAttemptTimesOut() {
	res := s.start()
	s.service.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	a, err := s.service.Get(s.ctx, s.owner, res.Attempt.ID)
	s.Require().NoError(err)
	s.Equal(StateCancelled, a.State)
	s.Equal(ReasonTimeout, a.CancelReason)

	_, err = s.service.Succeed(s.ctx, s.owner, s.success(res))
	s.ErrorIs(err, ErrAttemptCancelled)
}

func (s *CheckoutSuite) TestCancelAfterFulfilmentConflicts() {
	res := s.start()
	_, err := s.service.Succeed(s.ctx, s.owner, s.success(res))
	s.Require().NoError(err)

	_, err = s.service.Cancel(s.ctx, s.owner, res.Attempt.ID)
	s.ErrorIs(err, ErrAttemptFulfilled)
}

func (s *CheckoutSuite) TestBadSignatureIsRejected() {
	res := s.start()
	req := s.success(res)
	req.RazorpaySignature = "deadbeef"

	_, err := s.service.Succeed(s.ctx, s.owner, req)
	s.ErrorIs(err, ErrInvalidSignature)
	s.Len(s.cartItems(), 1)
}

func (s *CheckoutSuite) TestAttemptBelongsToSession() {
	res := s.start()
	other := cart.Owner{SessionID: "tab-2", ClientID: s.owner.ClientID}

	_, err := s.service.Get(s.ctx, other, res.Attempt.ID)
	s.ErrorIs(err, ErrSessionMismatch)

	_, err = s.service.Get(s.ctx, s.owner, "missing")
	s.ErrorIs(err, ErrAttemptNotFound)
}

func (s *CheckoutSuite) TestClientSideModeSkipsSignature() {
	s.gateway.serverSide = false
	s.seedCart(`[{"id":1,"name":"Pizza","price":250,"quantity":1}]`)

	res, err := s.service.Start(s.ctx, s.owner, StartRequest{Delivery: s.validForm()})
	s.Require().NoError(err)
	s.Empty(res.Options.OrderID)

	out, err := s.service.Succeed(s.ctx, s.owner, SuccessRequest{
		AttemptID:      res.Attempt.ID,
		Token:          res.Token,
		SuccessPayload: payment.SuccessPayload{RazorpayPaymentID: "pay_client_1"},
	})
	s.Require().NoError(err)
	s.Equal("pay_client_1", out.Order.PaymentID)
}
