// internal/interfaces/http/handlers/feedback.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/feedback"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
)

// FeedbackHandler handles the feedback and partner forms
type FeedbackHandler struct {
	feedback *feedback.Service
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(svc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{feedback: svc}
}

// SubmitFeedback handles POST /feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req feedback.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	receipt, err := h.feedback.SubmitFeedback(c.Request.Context(), middleware.GetOwner(c).ClientID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": receipt.Toast,
		"data":    receipt,
	})
}

// SubmitPartner handles POST /partners
func (h *FeedbackHandler) SubmitPartner(c *gin.Context) {
	var req feedback.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	receipt, err := h.feedback.SubmitPartner(c.Request.Context(), middleware.GetOwner(c).ClientID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": receipt.Toast,
		"data":    receipt,
	})
}
