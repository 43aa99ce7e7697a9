package ai

import (
	"context"
	"fmt"

	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/scene"
)

// Backend is a remote model that can both detect and classify
type Backend interface {
	scene.Detector
	scene.Classifier
	HealthCheck(ctx context.Context) error
	URL() string
}

// BackendOptions carries pipeline settings some backends forward to the model
type BackendOptions struct {
	ConfidenceThreshold float64
	Classes             []string
}

// NewBackend builds the backend named in cfg. It returns a nil Backend for
// "none" so the pipeline stage uses its fallback.
func NewBackend(cfg config.BackendConfig, opts BackendOptions, log *logger.Logger) (Backend, error) {
	switch cfg.Backend {
	case "none", "":
		return nil, nil
	case "http":
		return NewClient(ClientConfig{
			ServiceURL:          cfg.URL,
			Timeout:             cfg.Timeout,
			Retries:             cfg.Retries,
			RetryDelay:          cfg.RetryDelay,
			ConfidenceThreshold: opts.ConfidenceThreshold,
			EnabledClasses:      opts.Classes,
		}, log.Named("inference")), nil
	case "ollama":
		client, err := NewOllamaClient(OllamaConfig{
			URL:     cfg.URL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			Classes: opts.Classes,
		}, log.Named("ollama"))
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown model backend: %s", cfg.Backend)
	}
}

// AsDetector returns b as a scene.Detector, keeping nil as an untyped nil
func AsDetector(b Backend) scene.Detector {
	if b == nil {
		return nil
	}
	return b
}

// AsClassifier returns b as a scene.Classifier, keeping nil as an untyped nil
func AsClassifier(b Backend) scene.Classifier {
	if b == nil {
		return nil
	}
	return b
}
