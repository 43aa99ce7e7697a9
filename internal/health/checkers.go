package health

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// SystemChecker reports Go runtime resource usage
type SystemChecker struct {
	MaxGoroutines int    // degraded above this count, 0 disables
	MaxHeapBytes  uint64 // degraded above this heap size, 0 disables
}

func (c *SystemChecker) Name() string {
	return "system"
}

func (c *SystemChecker) Check(ctx context.Context) Check {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()

	check := Check{
		Name:      c.Name(),
		Status:    StatusHealthy,
		Message:   "System resources OK",
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"goroutines":    goroutines,
			"heap_alloc_mb": mem.HeapAlloc / 1024 / 1024,
			"sys_mb":        mem.Sys / 1024 / 1024,
			"num_gc":        mem.NumGC,
			"go_version":    runtime.Version(),
			"gomaxprocs":    runtime.GOMAXPROCS(0),
		},
	}

	switch {
	case c.MaxGoroutines > 0 && goroutines > c.MaxGoroutines:
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("Goroutine count %d above %d", goroutines, c.MaxGoroutines)
	case c.MaxHeapBytes > 0 && mem.HeapAlloc > c.MaxHeapBytes:
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("Heap size %d bytes above %d", mem.HeapAlloc, c.MaxHeapBytes)
	}
	return check
}

// PingFunc probes one dependency
type PingFunc func(ctx context.Context) error

// DependencyChecker wraps a remote dependency probe. Failures report
// degraded unless the dependency is marked critical.
type DependencyChecker struct {
	name     string
	target   string
	ping     PingFunc
	critical bool
}

// NewDependencyChecker creates a checker for the dependency at target
func NewDependencyChecker(name, target string, ping PingFunc, critical bool) *DependencyChecker {
	return &DependencyChecker{name: name, target: target, ping: ping, critical: critical}
}

func (c *DependencyChecker) Name() string {
	return c.name
}

func (c *DependencyChecker) Check(ctx context.Context) Check {
	check := Check{
		Name:      c.name,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"target": c.target,
		},
	}

	start := time.Now()
	err := c.ping(ctx)
	check.Details["latency_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		check.Status = StatusDegraded
		if c.critical {
			check.Status = StatusUnhealthy
		}
		check.Message = fmt.Sprintf("%s unreachable: %v", c.name, err)
		return check
	}

	check.Status = StatusHealthy
	check.Message = fmt.Sprintf("%s reachable", c.name)
	return check
}
