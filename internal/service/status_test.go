package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServiceStatus(t *testing.T) {
	status := NewServiceStatus("web-server")

	assert.Equal(t, "web-server", status.Name)
	assert.Equal(t, StatusStopped, status.GetStatus())
	assert.Zero(t, status.GetUptime())
}

func TestServiceStatus_RunningClearsError(t *testing.T) {
	status := NewServiceStatus("web-server")
	status.SetError(errors.New("bind failed"))
	assert.Equal(t, StatusError, status.GetStatus())
	assert.Error(t, status.GetError())

	status.SetStatus(StatusRunning)
	assert.True(t, status.IsRunning())
	assert.NoError(t, status.GetError())
}

func TestServiceStatus_GetUptime(t *testing.T) {
	status := NewServiceStatus("web-server")
	status.SetStatus(StatusRunning)
	time.Sleep(20 * time.Millisecond)
	assert.GreaterOrEqual(t, status.GetUptime(), 20*time.Millisecond)

	status.SetStatus(StatusStopped)
	assert.Zero(t, status.GetUptime())
}

func TestServiceStatus_Snapshot(t *testing.T) {
	status := NewServiceStatus("notifier")
	status.SetError(errors.New("redis unreachable"))

	snap := status.Snapshot()
	assert.Equal(t, StatusError, snap["status"])
	assert.Equal(t, "redis unreachable", snap["error"])
	assert.NotContains(t, snap, "uptime")
}

func TestServiceStatus_ConcurrentAccess(t *testing.T) {
	status := NewServiceStatus("web-server")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			status.SetStatus(StatusRunning)
		}()
		go func() {
			defer wg.Done()
			_ = status.GetStatus()
			_ = status.GetUptime()
			_ = status.Snapshot()
		}()
	}
	wg.Wait()
	assert.True(t, status.IsRunning())
}
