// internal/interfaces/http/handlers/debug.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

// DebugHandler exposes the in-memory error log. Only mounted in development.
type DebugHandler struct {
	errLog *apperror.Log
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(errLog *apperror.Log) *DebugHandler {
	return &DebugHandler{errLog: errLog}
}

// ListErrors handles GET /debug/errors?type=
func (h *DebugHandler) ListErrors(c *gin.Context) {
	entries := h.errLog.Recent(apperror.Kind(c.Query("type")))
	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"count": len(entries),
	})
}

// ClearErrors handles DELETE /debug/errors
func (h *DebugHandler) ClearErrors(c *gin.Context) {
	h.errLog.Clear()
	c.JSON(http.StatusOK, gin.H{
		"message": "Error log cleared",
	})
}
