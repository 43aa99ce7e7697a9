package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/service"
)

const defaultSendTimeout = 5 * time.Second

// Dispatcher forwards scene.built events from the bus to every sink
type Dispatcher struct {
	*service.ServiceBase
	sinks       []Sink
	sendTimeout time.Duration
	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
}

// NewDispatcher creates a dispatcher for the given sinks
func NewDispatcher(sinks []Sink, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		ServiceBase: service.NewServiceBase("notify-dispatcher", log),
		sinks:       sinks,
		sendTimeout: defaultSendTimeout,
	}
}

// Start subscribes to scene events
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}
	bus := d.GetEventBus()
	if bus == nil {
		return errors.New("dispatcher has no event bus")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	bus.SubscribeWithHandler(runCtx, service.EventTypeSceneBuilt, d.handle, d.onError)

	d.running = true
	d.GetStatus().SetStatus(service.StatusRunning)
	d.LogInfo("Notification dispatcher started", "sinks", d.sinkNames())
	return nil
}

// Stop unsubscribes and closes all sinks
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}
	d.cancel()
	d.running = false

	var errs []error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	d.GetStatus().SetStatus(service.StatusStopped)
	d.LogInfo("Notification dispatcher stopped")
	return errors.Join(errs...)
}

func (d *Dispatcher) handle(ctx context.Context, event service.Event) error {
	payload, err := SceneEventFrom(event)
	if err != nil {
		return err
	}

	var errs []error
	for _, s := range d.sinks {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		err := s.Send(sendCtx, payload)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		d.LogDebug("Scene event delivered", "sink", s.Name(), "request_id", payload.RequestID)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) onError(event service.Event, err error) {
	requestID, _ := event.Data["request_id"].(string)
	d.LogError("Failed to deliver scene event", err, "request_id", requestID)
	d.PublishEvent(service.EventTypeNotifyFailed, map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	})
}

func (d *Dispatcher) sinkNames() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}
