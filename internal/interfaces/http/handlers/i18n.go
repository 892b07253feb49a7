// internal/interfaces/http/handlers/i18n.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/i18n"
)

// I18nHandler serves translation bundles
type I18nHandler struct {
	bundles *i18n.Service
}

// NewI18nHandler creates a new i18n handler
func NewI18nHandler(bundles *i18n.Service) *I18nHandler {
	return &I18nHandler{bundles: bundles}
}

// ListLanguages handles GET /i18n
func (h *I18nHandler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"languages": h.bundles.Languages()},
	})
}

// GetBundle handles GET /i18n/:lang. An unknown language is negotiated
// from Accept-Language instead.
func (h *I18nHandler) GetBundle(c *gin.Context) {
	lang, ok := h.bundles.Supports(c.Param("lang"))
	if !ok {
		lang = h.bundles.Negotiate(c.GetHeader("Accept-Language"))
	}

	bundle, err := h.bundles.Bundle(c.Request.Context(), lang)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Language", bundle.Lang)
	c.JSON(http.StatusOK, gin.H{
		"data": bundle,
	})
}
