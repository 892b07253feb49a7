// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/checkout"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the order submission flow
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

// CancelRequest is the body of POST /checkout/payment/cancel
type CancelRequest struct {
	AttemptID string `json:"attempt_id" binding:"required"`
}

// ValidateForm handles POST /checkout/validate
func (h *CheckoutHandler) ValidateForm(c *gin.Context) {
	var req checkout.DeliveryForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	form, err := h.checkout.ValidateForm(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery details are valid",
		"data":    form,
	})
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkout.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkout.Start(c.Request.Context(), middleware.GetOwner(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.State == checkout.StateNotIntegrated {
		c.JSON(http.StatusOK, gin.H{
			"message": result.Message,
			"data":    result,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment started",
		"data":    result,
	})
}

// PaymentSuccess handles POST /checkout/payment/success
func (h *CheckoutHandler) PaymentSuccess(c *gin.Context) {
	var req checkout.SuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkout.Succeed(c.Request.Context(), middleware.GetOwner(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replay {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}

// PaymentCancel handles POST /checkout/payment/cancel
func (h *CheckoutHandler) PaymentCancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	attempt, err := h.checkout.Cancel(c.Request.Context(), middleware.GetOwner(c), req.AttemptID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment cancelled",
		"data":    attempt,
	})
}

// GetAttempt handles GET /checkout/attempts/:id
func (h *CheckoutHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.checkout.Get(c.Request.Context(), middleware.GetOwner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment attempt retrieved successfully",
		"data":    attempt,
	})
}
