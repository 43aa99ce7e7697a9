package service

import (
	"github.com/bhargavsai259/collegeproject/internal/logger"
)

// ServiceBase carries the name, logger, status and event bus shared by services
type ServiceBase struct {
	name     string
	logger   *logger.Logger
	eventBus *EventBus
	status   *ServiceStatus
}

// NewServiceBase creates a new service base
func NewServiceBase(name string, log *logger.Logger) *ServiceBase {
	return &ServiceBase{
		name:   name,
		logger: log,
		status: NewServiceStatus(name),
	}
}

func (sb *ServiceBase) Name() string {
	return sb.name
}

// SetEventBus is called by the Manager on registration
func (sb *ServiceBase) SetEventBus(bus *EventBus) {
	sb.eventBus = bus
}

func (sb *ServiceBase) GetEventBus() *EventBus {
	return sb.eventBus
}

func (sb *ServiceBase) GetStatus() *ServiceStatus {
	return sb.status
}

// PublishEvent publishes an event when a bus is attached
func (sb *ServiceBase) PublishEvent(eventType EventType, data map[string]interface{}) {
	if sb.eventBus != nil {
		sb.eventBus.Publish(Event{
			Type:   eventType,
			Source: sb.name,
			Data:   data,
		})
	}
}

func (sb *ServiceBase) LogInfo(msg string, fields ...interface{}) {
	sb.logger.Info(msg, append([]interface{}{"service", sb.name}, fields...)...)
}

func (sb *ServiceBase) LogWarn(msg string, fields ...interface{}) {
	sb.logger.Warn(msg, append([]interface{}{"service", sb.name}, fields...)...)
}

func (sb *ServiceBase) LogError(msg string, err error, fields ...interface{}) {
	sb.logger.Error(msg, append([]interface{}{"service", sb.name, "error", err}, fields...)...)
}

func (sb *ServiceBase) LogDebug(msg string, fields ...interface{}) {
	sb.logger.Debug(msg, append([]interface{}{"service", sb.name}, fields...)...)
}
