// internal/domain/payment/razorpay_service.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
)

// RazorpayService creates Razorpay orders and checks payment signatures
type RazorpayService struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRazorpayService creates a new Razorpay service
func NewRazorpayService(cfg *config.Config, logger *logrus.Logger) *RazorpayService {
	return &RazorpayService{
		keyID:     cfg.Payment.RazorpayKeyID,
		keySecret: cfg.Payment.RazorpayKeySecret,
		baseURL:   strings.TrimRight(cfg.Payment.RazorpayBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// KeyID is the publishable key handed to the checkout widget
func (r *RazorpayService) KeyID() string {
	return r.keyID
}

// ServerSide reports whether orders can be created and signatures checked
func (r *RazorpayService) ServerSide() bool {
	return r.keyID != "" && r.keySecret != ""
}

// CreateOrder registers the amount with Razorpay and returns its order
func (r *RazorpayService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*RazorpayOrder, error) {
	response, err := r.makeAPICall(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create Razorpay order: %w", err)
	}

	var order RazorpayOrder
	if err := json.Unmarshal(response, &order); err != nil {
		return nil, fmt.Errorf("failed to parse Razorpay order response: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"razorpay_order_id": order.ID,
			"receipt":           order.Receipt,
			"amount":            order.Amount,
		}).Info("Razorpay order created")
	}
	return &order, nil
}

// VerifySignature checks the HMAC-SHA256 of "order_id|payment_id" against signature
func (r *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(r.keySecret, orderID, paymentID, signature)
}

// Signature computes the hex signature Razorpay sends for a payment
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a Razorpay checkout signature with secret
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Signature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// makeAPICall makes HTTP calls to Razorpay API
func (r *RazorpayService) makeAPICall(ctx context.Context, method, endpoint string, data interface{}) ([]byte, error) {
	var reqBody []byte
	if data != nil {
		var err error
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API call failed with status %d: %s", resp.StatusCode, respBody.String())
	}
	return respBody.Bytes(), nil
}

// RazorpayOrder is the order object returned by the Orders API
type RazorpayOrder struct {
	ID        string                 `json:"id"`
	Entity    string                 `json:"entity"`
	Amount    int64                  `json:"amount"`
	Currency  string                 `json:"currency"`
	Receipt   string                 `json:"receipt"`
	Status    string                 `json:"status"`
	Notes     map[string]interface{} `json:"notes"`
	CreatedAt int64                  `json:"created_at"`
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	Amount   int64                  `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes,omitempty"`
}

// Prefill seeds the widget's customer fields
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Theme styles the widget
type Theme struct {
	Color string `json:"color"`
}

// CheckoutOptions is everything the browser widget needs to open
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id,omitempty"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// SuccessPayload is what the widget hands back after a successful payment
type SuccessPayload struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
