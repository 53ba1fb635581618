// Package api exposes the rating service over HTTP: policy analysis,
// rectification, health and metrics.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/policy-rating-engine/internal/domain"
	"github.com/policy-rating-engine/internal/metrics"
	"github.com/policy-rating-engine/internal/middleware"
	"github.com/policy-rating-engine/internal/service"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	config   *domain.Config
	analyzer *service.AnalyzerService
	metrics  *metrics.Metrics
	logger   *logrus.Logger
	router   *gin.Engine
	limiter  *middleware.RateLimiter
	server   *http.Server
	started  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, analyzer *service.AnalyzerService, m *metrics.Metrics, logger *logrus.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(m.GinMiddleware())

	server := &Server{
		config:   cfg,
		analyzer: analyzer,
		metrics:  m,
		logger:   logger,
		router:   router,
		started:  time.Now(),
	}

	if cfg.RateLimit.Enabled {
		server.limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
		router.Use(server.limiter.Middleware())
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.WithField("addr", addr).Info("HTTP server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.limiter != nil {
		s.limiter.Stop()
	}

	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the handler chain for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.POST("/rectify", s.handleRectify)
		v1.GET("/analysis/:id", s.handleGetAnalysis)
	}
}
