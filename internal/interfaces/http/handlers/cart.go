// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/cart"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts *cart.Manager
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

// CartResponse is the cart as the checkout page renders it
type CartResponse struct {
	Items   []cart.Item        `json:"items"`
	Totals  cart.DisplayTotals `json:"totals"`
	Amount  int64              `json:"amount"`
	Count   int                `json:"count"`
	Empty   bool               `json:"empty"`
	Warning string             `json:"warning,omitempty"`
}

// ReplaceCartRequest is the body of PUT /cart
type ReplaceCartRequest struct {
	Items []cart.RawItem `json:"items"`
}

// ChangeQuantityRequest is the body of PATCH /cart/items/:id
type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func newCartResponse(c *cart.Cart, warning string) CartResponse {
	totals := c.Totals()
	return CartResponse{
		Items:   c.Items(),
		Totals:  totals.Display(),
		Amount:  totals.AmountMinor(),
		Count:   c.TotalQuantity(),
		Empty:   c.IsEmpty(),
		Warning: warning,
	}
}

// mutate runs fn on the request's cart and answers with the resulting cart.
// A failed save still returns the cart, with a warning.
func (h *CartHandler) mutate(c *gin.Context, message string, fn func(*cart.Cart) error) {
	var resp CartResponse
	err := h.carts.With(c.Request.Context(), middleware.GetOwner(c), func(ct *cart.Cart) error {
		warning, err := storageWarning(fn(ct))
		if err != nil {
			return err
		}
		resp = newCartResponse(ct, warning)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    resp,
	})
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	h.mutate(c, "Cart retrieved successfully", func(*cart.Cart) error { return nil })
}

// ReplaceCart handles PUT /cart
func (h *CartHandler) ReplaceCart(c *gin.Context) {
	var req ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.mutate(c, "Cart saved successfully", func(ct *cart.Cart) error {
		return ct.Replace(c.Request.Context(), req.Items)
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.RawItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.mutate(c, "Item added to cart successfully", func(ct *cart.Cart) error {
		ok, err := ct.Add(c.Request.Context(), req)
		if !ok {
			return apperror.Validation("item", "Item needs an id and a positive quantity")
		}
		return err
	})
}

// UpdateCartItem handles PATCH /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	itemID := c.Param("id")
	h.mutate(c, "Cart updated successfully", func(ct *cart.Cart) error {
		_, err := ct.ChangeQuantity(c.Request.Context(), itemID, req.Delta)
		return err
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.mutate(c, "Cart cleared successfully", func(ct *cart.Cart) error {
		return ct.Clear(c.Request.Context())
	})
}
