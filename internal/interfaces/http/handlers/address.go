// internal/interfaces/http/handlers/address.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/address"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
)

// AddressHandler handles city search, pincode and delivery-zone endpoints
type AddressHandler struct {
	addresses *address.Service
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addresses *address.Service) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// SearchCities handles GET /address/cities?q=
func (h *AddressHandler) SearchCities(c *gin.Context) {
	owner := middleware.GetOwner(c)

	suggestions, err := h.addresses.SearchCities(c.Request.Context(), owner.SessionID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cities retrieved successfully",
		"data":    suggestions,
	})
}

// SelectCity handles POST /address/cities/select
func (h *AddressHandler) SelectCity(c *gin.Context) {
	var req address.Suggestion
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	advisory, err := h.addresses.SelectCity(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "City selected",
		"data": gin.H{
			"city":     req.Label,
			"advisory": advisory,
		},
	})
}

// LookupPincode handles GET /address/pincode?pin=&city=
func (h *AddressHandler) LookupPincode(c *gin.Context) {
	owner := middleware.GetOwner(c)

	result, err := h.addresses.LookupPincode(c.Request.Context(), owner.SessionID, c.Query("pin"), c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pincode checked",
		"data":    result,
	})
}

// CheckDistance handles POST /address/distance
func (h *AddressHandler) CheckDistance(c *gin.Context) {
	var req address.Point
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	advisory, err := h.addresses.Advise(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Distance checked",
		"data":    advisory,
	})
}
