// Package web serves the scene builder HTTP API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/bhargavsai259/collegeproject/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// SceneBuilder turns uploads into laid-out room records
type SceneBuilder interface {
	Build(ctx context.Context, uploads []scene.Upload) []scene.RoomRecord
}

// RouteRegistrar mounts extra routes, such as health endpoints
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// Server represents the web server service
type Server struct {
	*service.ServiceBase
	config     config.ServerConfig
	logger     *logger.Logger
	builder    SceneBuilder
	health     RouteRegistrar
	router     *gin.Engine
	routesOnce sync.Once
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
}

// NewServer creates a new web server service
func NewServer(cfg config.ServerConfig, builder SceneBuilder, log *logger.Logger) *Server {
	// GIN_MODE still overrides this at runtime
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestID(log))
	router.Use(ginLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	return &Server{
		ServiceBase: service.NewServiceBase("web-server", log),
		config:      cfg,
		logger:      log,
		builder:     builder,
		router:      router,
	}
}

// SetHealth mounts health endpoints. Call before Start.
func (s *Server) SetHealth(h RouteRegistrar) {
	s.health = h
}

// Handler returns the HTTP handler with all routes mounted
func (s *Server) Handler() http.Handler {
	s.routesOnce.Do(s.setupRoutes)
	return s.router
}

// Start binds the listen address and serves in the background. Bind
// errors are returned.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return nil
	}

	addr := s.config.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.GetStatus().SetError(err)
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.GetStatus().SetError(err)
			s.LogError("Web server error", err, "address", ln.Addr().String())
		}
	}(s.httpServer)

	s.GetStatus().SetStatus(service.StatusRunning)
	s.LogInfo("Web server started", "address", ln.Addr().String())
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	s.LogInfo("Stopping web server")
	err := s.httpServer.Shutdown(ctx)
	s.httpServer = nil
	s.listener = nil
	s.GetStatus().SetStatus(service.StatusStopped)
	return err
}

// Addr returns the bound address, or "" before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Name returns the service name
func (s *Server) Name() string {
	return "web-server"
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleRoot)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/export", s.handleExport)

	if s.health != nil {
		s.health.RegisterRoutes(s.router)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// requestID echoes X-Request-ID or assigns a new one, and attaches a
// request-scoped logger to the request context
func requestID(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		reqLog := log.With(requestIDKey, id)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))
		c.Next()
	}
}

// ginLogger creates a Gin middleware for logging
func ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		log := logger.FromContext(c.Request.Context(), nil)
		if log == nil {
			return
		}
		log.Info("HTTP request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// corsMiddleware allows every origin, method and header
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		if reqHeaders := c.GetHeader("Access-Control-Request-Headers"); reqHeaders != "" {
			h.Set("Access-Control-Allow-Headers", reqHeaders)
		} else {
			h.Set("Access-Control-Allow-Headers", "*")
		}
		h.Set("Access-Control-Expose-Headers", requestIDHeader+", Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
