package service

import (
	"sync"
	"time"
)

// Status represents the lifecycle state of a service
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// ServiceStatus tracks the status of a service
type ServiceStatus struct {
	Name      string
	status    Status
	startedAt time.Time
	err       error
	mu        sync.RWMutex
}

// NewServiceStatus creates a status tracker in the stopped state
func NewServiceStatus(name string) *ServiceStatus {
	return &ServiceStatus{
		Name:   name,
		status: StatusStopped,
	}
}

// SetStatus sets the service status. Entering running clears any error.
func (ss *ServiceStatus) SetStatus(status Status) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.status = status
	if status == StatusRunning {
		ss.startedAt = time.Now()
		ss.err = nil
	}
}

// SetError moves the service into the error state
func (ss *ServiceStatus) SetError(err error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.status = StatusError
	ss.err = err
}

func (ss *ServiceStatus) GetStatus() Status {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.status
}

func (ss *ServiceStatus) GetError() error {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.err
}

func (ss *ServiceStatus) IsRunning() bool {
	return ss.GetStatus() == StatusRunning
}

// GetUptime returns how long the service has been running, or zero
func (ss *ServiceStatus) GetUptime() time.Duration {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	if ss.status == StatusRunning && !ss.startedAt.IsZero() {
		return time.Since(ss.startedAt)
	}
	return 0
}

// Snapshot returns a JSON-friendly view of the status
func (ss *ServiceStatus) Snapshot() map[string]interface{} {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	snap := map[string]interface{}{
		"status": ss.status,
	}
	if ss.status == StatusRunning && !ss.startedAt.IsZero() {
		snap["uptime"] = time.Since(ss.startedAt).Round(time.Second).String()
	}
	if ss.err != nil {
		snap["error"] = ss.err.Error()
	}
	return snap
}
