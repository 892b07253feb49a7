// internal/interfaces/http/handlers/preference.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/preference"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
)

// PreferenceHandler handles theme and language preferences
type PreferenceHandler struct {
	prefs *preference.Service
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(prefs *preference.Service) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// ThemeRequest is the body of PUT /preferences/theme
type ThemeRequest struct {
	Theme preference.Theme `json:"theme" binding:"required"`
}

// LanguageRequest is the body of PUT /preferences/language
type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// GetTheme handles GET /preferences/theme
func (h *PreferenceHandler) GetTheme(c *gin.Context) {
	theme := h.prefs.Theme(c.Request.Context(), middleware.GetOwner(c).ClientID)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"theme": theme},
	})
}

// SetTheme handles PUT /preferences/theme
func (h *PreferenceHandler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.prefs.SetTheme(c.Request.Context(), middleware.GetOwner(c).ClientID, req.Theme); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Theme updated",
		"data":    gin.H{"theme": req.Theme},
	})
}

// ToggleTheme handles POST /preferences/theme/toggle
func (h *PreferenceHandler) ToggleTheme(c *gin.Context) {
	theme, err := h.prefs.ToggleTheme(c.Request.Context(), middleware.GetOwner(c).ClientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Theme updated",
		"data":    gin.H{"theme": theme},
	})
}

// GetLanguage handles GET /preferences/language
func (h *PreferenceHandler) GetLanguage(c *gin.Context) {
	lang := h.prefs.Language(c.Request.Context(), middleware.GetOwner(c).ClientID)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"language": lang},
	})
}

// SetLanguage handles PUT /preferences/language
func (h *PreferenceHandler) SetLanguage(c *gin.Context) {
	var req LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	lang, err := h.prefs.SetLanguage(c.Request.Context(), middleware.GetOwner(c).ClientID, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Language updated",
		"data":    gin.H{"language": lang},
	})
}
