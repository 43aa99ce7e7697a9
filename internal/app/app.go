// Package app wires configuration, model backends, the scene builder and
// the long-running services into one process.
package app

import (
	"context"
	"fmt"

	"github.com/bhargavsai259/collegeproject/internal/ai"
	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/health"
	"github.com/bhargavsai259/collegeproject/internal/imageproc"
	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/notify"
	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/bhargavsai259/collegeproject/internal/service"
	"github.com/bhargavsai259/collegeproject/internal/web"
)

// App is the assembled scene builder service
type App struct {
	logger  *logger.Logger
	builder *scene.Builder
	svcMgr  *service.Manager
	health  *health.Manager
	server  *web.Server
}

// Pipeline holds the scene builder and the backends it was built from
type Pipeline struct {
	Builder    *scene.Builder
	Detector   ai.Backend
	Classifier ai.Backend
}

// NewPipeline constructs model backends and the scene builder
func NewPipeline(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	opts := ai.BackendOptions{
		ConfidenceThreshold: cfg.Pipeline.Detection.ConfidenceThreshold,
		Classes:             cfg.Pipeline.Detection.AllowedClasses,
	}
	detector, err := ai.NewBackend(cfg.Models.Detector, opts, log.Named("detector"))
	if err != nil {
		return nil, fmt.Errorf("detector backend: %w", err)
	}
	classifier, err := ai.NewBackend(cfg.Models.Classifier, opts, log.Named("classifier"))
	if err != nil {
		return nil, fmt.Errorf("classifier backend: %w", err)
	}

	builder, err := scene.NewBuilderFromConfig(cfg.Pipeline, scene.Backends{
		Codec:      imageproc.NewProcessor(cfg.Pipeline.ModelMaxDimension, cfg.Pipeline.ModelJPEGQuality),
		Palette:    imageproc.KMeansPalette{},
		Detector:   ai.AsDetector(detector),
		Classifier: ai.AsClassifier(classifier),
	}, log.Named("scene"))
	if err != nil {
		return nil, err
	}

	return &Pipeline{Builder: builder, Detector: detector, Classifier: classifier}, nil
}

// New assembles the application from configuration. Nothing is started.
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	pipeline, err := NewPipeline(cfg, log)
	if err != nil {
		return nil, err
	}

	svcMgr := service.NewManager(log)
	healthMgr := health.NewManager(log.Named("health"), svcMgr)
	healthMgr.RegisterChecker(&health.SystemChecker{MaxGoroutines: 10000})
	registerBackendChecker(healthMgr, "detector", pipeline.Detector)
	if cfg.Pipeline.Classifier == "model" {
		registerBackendChecker(healthMgr, "classifier", pipeline.Classifier)
	}

	server := web.NewServer(cfg.Server, pipeline.Builder, log.Named("web"))
	server.SetHealth(healthMgr)
	svcMgr.Register(server)

	sinks := newSinks(cfg.Notify, healthMgr, log)
	if len(sinks) > 0 {
		svcMgr.Register(notify.NewDispatcher(sinks, log.Named("notify")))
	}

	return &App{
		logger:  log,
		builder: pipeline.Builder,
		svcMgr:  svcMgr,
		health:  healthMgr,
		server:  server,
	}, nil
}

func registerBackendChecker(m *health.Manager, name string, b ai.Backend) {
	if b == nil {
		return
	}
	m.RegisterChecker(health.NewDependencyChecker(name, b.URL(), b.HealthCheck, false))
}

// newSinks connects the enabled notification sinks. A sink that cannot
// connect is logged and left out.
func newSinks(cfg config.NotifyConfig, healthMgr *health.Manager, log *logger.Logger) []notify.Sink {
	var sinks []notify.Sink

	if cfg.Redis.Enabled {
		sink := notify.NewRedisStreamSink(cfg.Redis)
		sinks = append(sinks, sink)
		healthMgr.RegisterChecker(health.NewDependencyChecker("redis", cfg.Redis.Addr, sink.Ping, false))
	}

	if cfg.MQTT.Enabled {
		pub, err := notify.NewMQTTPublisher(cfg.MQTT, log.Named("mqtt"))
		if err != nil {
			log.Warn("MQTT sink disabled", "broker", cfg.MQTT.Broker, "error", err)
		} else {
			sinks = append(sinks, notify.NewMQTTSink(pub, cfg.MQTT.Topic, cfg.MQTT.QoS))
		}
	}
	return sinks
}

// Start starts every service. The HTTP listener is bound on return.
func (a *App) Start(ctx context.Context) error {
	return a.svcMgr.Start(ctx)
}

// Shutdown stops services in reverse start order
func (a *App) Shutdown(ctx context.Context) error {
	return a.svcMgr.Shutdown(ctx)
}

// Addr returns the bound HTTP address
func (a *App) Addr() string {
	return a.server.Addr()
}

// Builder returns the scene builder
func (a *App) Builder() *scene.Builder {
	return a.builder
}

// Health returns the health manager
func (a *App) Health() *health.Manager {
	return a.health
}
