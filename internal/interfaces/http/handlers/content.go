// internal/interfaces/http/handlers/content.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/content"
	"github.com/your-org/foodie-backend/internal/domain/i18n"
	"github.com/your-org/foodie-backend/internal/domain/preference"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
)

// ContentHandler serves the home page widgets
type ContentHandler struct {
	content *content.Service
	bundles *i18n.Service
	prefs   *preference.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *content.Service, bundles *i18n.Service, prefs *preference.Service) *ContentHandler {
	return &ContentHandler{content: contentService, bundles: bundles, prefs: prefs}
}

// GetReviews handles GET /content/reviews
func (h *ContentHandler) GetReviews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.content.Reviews(),
	})
}

// GetRestaurants handles GET /content/restaurants
func (h *ContentHandler) GetRestaurants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.content.Restaurants(),
	})
}

// GetFooter handles GET /content/footer?lang=
func (h *ContentHandler) GetFooter(c *gin.Context) {
	lang, ok := h.bundles.Supports(c.Query("lang"))
	if !ok {
		lang = h.prefs.Language(c.Request.Context(), middleware.GetOwner(c).ClientID)
	}

	bundle, err := h.bundles.Bundle(c.Request.Context(), lang)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Language", bundle.Lang)
	c.JSON(http.StatusOK, gin.H{
		"data": h.content.Footer(bundle),
	})
}

// SearchMenu handles GET /menu/search?q=
func (h *ContentHandler) SearchMenu(c *gin.Context) {
	items := h.content.SearchMenu(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"count": len(items),
	})
}
