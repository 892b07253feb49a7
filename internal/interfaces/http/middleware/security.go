package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Referrer Policy
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// The API only serves JSON and PDFs
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Hide server information
		c.Header("Server", "Foodie API")

		c.Next()
	}
}
