// Package health aggregates dependency checks into liveness and readiness
// reports served on the API router.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/service"
	"github.com/gin-gonic/gin"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the result of one checker
type Check struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthReport is the overall health report
type HealthReport struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]Check       `json:"checks"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// Checker is implemented by every health check
type Checker interface {
	Name() string
	Check(ctx context.Context) Check
}

// StatusSource reports the lifecycle status of running services
type StatusSource interface {
	GetAllStatuses() map[string]*service.ServiceStatus
}

// Manager runs registered checkers on demand
type Manager struct {
	logger       *logger.Logger
	checkers     []Checker
	services     StatusSource
	startTime    time.Time
	checkTimeout time.Duration
	mu           sync.RWMutex
}

// NewManager creates a health manager. services may be nil.
func NewManager(log *logger.Logger, services StatusSource) *Manager {
	return &Manager{
		logger:       log,
		services:     services,
		startTime:    time.Now(),
		checkTimeout: 5 * time.Second,
	}
}

// RegisterChecker adds a checker to every report
func (m *Manager) RegisterChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Check runs all checkers. The overall status is the worst individual one.
func (m *Manager) Check(ctx context.Context) HealthReport {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()

	checks := make(map[string]Check, len(checkers))
	overall := StatusHealthy
	for _, checker := range checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check

		switch {
		case check.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case check.Status == StatusDegraded && overall == StatusHealthy:
			overall = StatusDegraded
		}
		if check.Status != StatusHealthy {
			m.logger.Warn("Health check not healthy", "check", check.Name, "status", check.Status, "message", check.Message)
		}
	}

	return HealthReport{
		Status:    overall,
		Timestamp: time.Now(),
		Uptime:    time.Since(m.startTime).Round(time.Second).String(),
		Checks:    checks,
		Services:  m.serviceStatuses(),
	}
}

func (m *Manager) serviceStatuses() map[string]interface{} {
	if m.services == nil {
		return nil
	}
	out := make(map[string]interface{})
	for name, status := range m.services.GetAllStatuses() {
		out[name] = status.Snapshot()
	}
	return out
}

// RegisterRoutes mounts the health endpoints on r
func (m *Manager) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", m.handleHealth)
	r.GET("/health/live", m.handleLiveness)
	r.GET("/health/ready", m.handleReadiness)
}

func (m *Manager) handleHealth(c *gin.Context) {
	report := m.Check(c.Request.Context())

	code := http.StatusOK
	if report.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

func (m *Manager) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// handleReadiness reports ready unless a check is unhealthy
func (m *Manager) handleReadiness(c *gin.Context) {
	report := m.Check(c.Request.Context())

	code := http.StatusOK
	if report.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    report.Status,
		"timestamp": report.Timestamp,
		"ready":     report.Status != StatusUnhealthy,
	})
}
