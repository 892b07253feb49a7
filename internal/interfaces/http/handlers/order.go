// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/order"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodie-backend/internal/pkg/pdf"
)

// OrderHandler handles the order history endpoints
type OrderHandler struct {
	orders *order.Service
	pdf    *pdf.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, pdfService *pdf.Service) *OrderHandler {
	return &OrderHandler{orders: orders, pdf: pdfService}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	owner := middleware.GetOwner(c)

	orders, err := h.orders.List(c.Request.Context(), owner.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    order.NewViews(orders),
	})
}

// GetOrder handles GET /orders/:number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), middleware.GetOwner(c).ClientID, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    order.NewView(o),
	})
}

// GetReceipt handles GET /orders/:number/receipt. format=html returns the
// rendered page for preview instead of the PDF.
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), middleware.GetOwner(c).ClientID, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "html" {
		page, err := h.pdf.RenderHTML(o)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to render receipt",
			})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	buf, err := h.pdf.GenerateReceipt(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
