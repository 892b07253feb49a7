// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/foodie-backend/internal/domain/checkout"
	"github.com/your-org/foodie-backend/internal/domain/order"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

// statusClientClosedRequest is the nginx convention for a caller that went away
const statusClientClosedRequest = 499

// respondError maps a service error to its HTTP answer
func respondError(c *gin.Context, err error) {
	var form *apperror.FormError
	if errors.As(err, &form) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  apperror.UserMessage(apperror.KindValidation),
			"fields": form.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, apperror.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Superseded by a newer request",
			"superseded": true,
		})
		return
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(statusClientClosedRequest)
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timeout"})
		return
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	case errors.Is(err, checkout.ErrAttemptNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment attempt not found"})
		return
	case errors.Is(err, checkout.ErrSessionMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	case checkout.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, checkout.ErrInvalidToken), errors.Is(err, checkout.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment could not be verified"})
		return
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		message := appErr.Message
		if message == "" {
			message = apperror.UserMessage(appErr.Kind)
		}
		switch appErr.Kind {
		case apperror.KindNetwork:
			c.JSON(http.StatusBadGateway, gin.H{"error": message, "retryable": true})
		case apperror.KindValidation:
			body := gin.H{"error": message}
			if appErr.Field != "" {
				body["fields"] = apperror.FieldErrors{appErr.Field: message}
			}
			c.JSON(http.StatusUnprocessableEntity, body)
		case apperror.KindCart:
			c.JSON(http.StatusBadRequest, gin.H{"error": message})
		case apperror.KindStorage:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// storageWarning turns a failed save into the warning that accompanies a
// successful response. Other errors are returned unchanged.
func storageWarning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if apperror.Is(err, apperror.KindStorage) {
		return apperror.UserMessage(apperror.KindStorage), nil
	}
	return "", err
}
