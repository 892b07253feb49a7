// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodie-backend/internal/interfaces/http/routes"
)

// Server represents the HTTP server
type Server struct {
	deps       routes.Dependencies
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(deps routes.Dependencies) *Server {
	return &Server{deps: deps}
}

// Handler builds the engine without listening. Start calls it; tests use it directly.
func (s *Server) Handler() (http.Handler, error) {
	cfg := s.deps.Config

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()
	s.startedAt = time.Now()

	s.setupMiddleware()
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s.gin, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	cfg := s.deps.Config
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	s.deps.Logger.WithFields(logrus.Fields{
		"port":     cfg.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", cfg.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.deps.Logger.Info("Shutting down HTTP server")

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.deps.Logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	cfg := s.deps.Config

	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	s.gin.Use(middleware.Logger(s.deps.Logger))
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.CORS(cfg))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(cfg, s.deps.Redis.GetClient(), s.deps.Logger))
	s.gin.Use(middleware.RequestSizeLimit(cfg.Server.MaxBodyBytes))
	s.gin.Use(middleware.Deadline(cfg.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() error {
	cfg := s.deps.Config

	// Health check endpoints sit outside the session scope
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	if _, err := routes.SetupRoutes(apiV1, s.deps); err != nil {
		return err
	}

	if cfg.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     cfg.App.Name + " API",
				"version":     cfg.App.Version,
				"environment": cfg.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"cart":        "/api/v1/cart",
					"checkout":    "/api/v1/checkout",
					"orders":      "/api/v1/orders",
					"address":     "/api/v1/address",
					"preferences": "/api/v1/preferences",
					"i18n":        "/api/v1/i18n",
					"content":     "/api/v1/content",
					"debug":       "/api/v1/debug/errors",
				},
			})
		})
	}
	return nil
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	sqlDB, err := s.deps.DB.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database connection error",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	if err := s.deps.Redis.GetClient().Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.deps.Config.App.Version,
		"environment": s.deps.Config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
