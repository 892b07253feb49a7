package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/pkg/logger"
	"github.com/your-org/foodie-backend/internal/pkg/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			RateLimitPerMinute: 2,
			CORSAllowedOrigins: []string{"http://localhost:5500", "*.foodie.in"},
			CORSAllowedMethods: []string{"GET", "POST"},
			CORSAllowedHeaders: []string{"Content-Type", "X-Session-ID"},
		},
		Storage: config.StorageConfig{ClientMaxAge: 365 * 24 * time.Hour},
	}
}

func TestSessionIssuesAndReusesIDs(t *testing.T) {
	r := gin.New()
	r.Use(Session(testConfig()))
	r.GET("/", func(c *gin.Context) {
		owner := GetOwner(c)
		c.String(http.StatusOK, owner.SessionID+" "+owner.ClientID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	sessionID := w.Header().Get(SessionIDHeader)
	clientID := w.Header().Get(ClientIDHeader)
	assert.True(t, validID(sessionID))
	assert.True(t, validID(clientID))
	assert.NotEqual(t, sessionID, clientID)

	// a second request with the cookies keeps both ids
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, sessionID+" "+clientID, w2.Body.String())

	// a header overrides the cookie, a bad header is ignored
	other := "7b0a3c1e-6c8f-4a61-9f1e-2b9d8c7e6a50"
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionIDHeader, other)
	req.Header.Set(ClientIDHeader, "not-a-uuid")
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req)
	parts := strings.Fields(w3.Body.String())
	require.Len(t, parts, 2)
	assert.Equal(t, other, parts[0])
	assert.True(t, validID(parts[1]))
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	cfg := testConfig()
	cfg.Security.RateLimitPerMinute = 0
	r := gin.New()
	r.Use(RateLimit(cfg, rdb, logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	mr.Close()
	r := gin.New()
	r.Use(RateLimit(testConfig(), rdb, logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(testConfig()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.foodie.in")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.foodie.in", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evilfoodie.in")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"too":"long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Deadline(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
	assert.True(t, validID(w.Body.String()))
}
