// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/cart"
)

// Context keys and transport names of the two storage owners
const (
	SessionIDKey    = "session_id"
	ClientIDKey     = "client_id"
	SessionIDHeader = "X-Session-ID"
	ClientIDHeader  = "X-Client-ID"
	SessionCookie   = "session_id"
	ClientCookie    = "client_id"
)

// Session resolves the tab (session) and device (client) ids. A header
// wins over a cookie; missing or malformed ids are replaced with new ones.
// The session cookie has no max-age so it ends with the browser session.
func Session(cfg *config.Config) gin.HandlerFunc {
	maxAge := int(cfg.Storage.ClientMaxAge.Seconds())

	return func(c *gin.Context) {
		sessionID := resolveID(c, SessionIDHeader, SessionCookie)
		clientID := resolveID(c, ClientIDHeader, ClientCookie)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sessionID, 0, "/", "", cfg.Security.CookieSecure, true)
		c.SetCookie(ClientCookie, clientID, maxAge, "/", "", cfg.Security.CookieSecure, true)
		c.Header(SessionIDHeader, sessionID)
		c.Header(ClientIDHeader, clientID)

		c.Set(SessionIDKey, sessionID)
		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}

func resolveID(c *gin.Context, header, cookie string) string {
	if id := c.GetHeader(header); validID(id) {
		return id
	}
	if id, err := c.Cookie(cookie); err == nil && validID(id) {
		return id
	}
	return uuid.New().String()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GetOwner returns the storage owner of the request
func GetOwner(c *gin.Context) cart.Owner {
	return cart.Owner{
		SessionID: c.GetString(SessionIDKey),
		ClientID:  c.GetString(ClientIDKey),
	}
}
