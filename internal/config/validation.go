package config

import (
	"fmt"
	"math"
	"strings"
)

var roomTypes = map[string]bool{
	"living_room": true,
	"kitchen":     true,
	"bedroom":     true,
	"bathroom":    true,
	"outdoor":     true,
}

// Validate validates the configuration and reports every problem at once
func (c *Config) Validate() error {
	var errors []string

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errors = append(errors, fmt.Sprintf("invalid log.level: %s (must be: debug, info, warn, error, fatal)", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errors = append(errors, fmt.Sprintf("invalid log.format: %s (must be: text or json)", c.Log.Format))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("server.port must be between 1 and 65535, got: %d", c.Server.Port))
	}
	if c.Server.MaxUploadMB < 0 {
		errors = append(errors, fmt.Sprintf("server.max_upload_mb must be >= 0, got: %d", c.Server.MaxUploadMB))
	}

	p := c.Pipeline
	switch p.Classifier {
	case "model", "rotation":
	default:
		errors = append(errors, fmt.Sprintf("invalid pipeline.classifier: %s (must be: model or rotation)", p.Classifier))
	}
	for _, rt := range p.Rotation {
		if !roomTypes[rt] {
			errors = append(errors, fmt.Sprintf("pipeline.rotation contains unknown room type: %s", rt))
		}
	}

	switch p.Dimensions.Mode {
	case "linear":
		if p.Dimensions.Scale <= 0 || !isFinite(p.Dimensions.Scale) {
			errors = append(errors, fmt.Sprintf("pipeline.dimensions.scale must be > 0, got: %v", p.Dimensions.Scale))
		}
	case "wall_height":
		if p.Dimensions.WallHeight <= 0 || !isFinite(p.Dimensions.WallHeight) {
			errors = append(errors, fmt.Sprintf("pipeline.dimensions.wall_height must be > 0, got: %v", p.Dimensions.WallHeight))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid pipeline.dimensions.mode: %s (must be: linear or wall_height)", p.Dimensions.Mode))
	}
	if p.Dimensions.Height < 0 {
		errors = append(errors, fmt.Sprintf("pipeline.dimensions.height must be >= 0, got: %v", p.Dimensions.Height))
	}

	if p.Colors.Count < 1 || p.Colors.Count > 8 {
		errors = append(errors, fmt.Sprintf("pipeline.colors.count must be between 1 and 8, got: %d", p.Colors.Count))
	}

	if p.Detection.ConfidenceThreshold < 0 || p.Detection.ConfidenceThreshold >= 1 {
		errors = append(errors, fmt.Sprintf("pipeline.detection.confidence_threshold must be in [0, 1), got: %.2f", p.Detection.ConfidenceThreshold))
	}
	if len(p.Detection.FallbackPosition) != 2 {
		errors = append(errors, fmt.Sprintf("pipeline.detection.fallback_position must have 2 components, got: %d", len(p.Detection.FallbackPosition)))
	}

	if p.Layout.Spacing < 0 || !isFinite(p.Layout.Spacing) {
		errors = append(errors, fmt.Sprintf("pipeline.layout.spacing must be >= 0, got: %v", p.Layout.Spacing))
	}
	if p.Layout.Dimensions != 2 && p.Layout.Dimensions != 3 {
		errors = append(errors, fmt.Sprintf("pipeline.layout.dimensions must be 2 or 3, got: %d", p.Layout.Dimensions))
	}
	if p.ModelMaxDimension < 0 {
		errors = append(errors, fmt.Sprintf("pipeline.model_max_dimension must be >= 0, got: %d", p.ModelMaxDimension))
	}
	if p.ModelJPEGQuality < 1 || p.ModelJPEGQuality > 100 {
		errors = append(errors, fmt.Sprintf("pipeline.model_jpeg_quality must be between 1 and 100, got: %d", p.ModelJPEGQuality))
	}

	errors = append(errors, validateBackend("models.detector", c.Models.Detector)...)
	errors = append(errors, validateBackend("models.classifier", c.Models.Classifier)...)

	if c.Notify.Redis.Enabled && c.Notify.Redis.Stream == "" {
		errors = append(errors, "notify.redis.stream is required when redis is enabled")
	}
	if c.Notify.MQTT.Enabled {
		if c.Notify.MQTT.Topic == "" {
			errors = append(errors, "notify.mqtt.topic is required when mqtt is enabled")
		}
		if c.Notify.MQTT.QoS < 0 || c.Notify.MQTT.QoS > 2 {
			errors = append(errors, fmt.Sprintf("notify.mqtt.qos must be 0, 1 or 2, got: %d", c.Notify.MQTT.QoS))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func validateBackend(prefix string, b BackendConfig) []string {
	var errors []string
	switch b.Backend {
	case "none":
		return nil
	case "http", "ollama":
	default:
		return []string{fmt.Sprintf("invalid %s.backend: %s (must be: http, ollama or none)", prefix, b.Backend)}
	}
	if b.URL == "" {
		errors = append(errors, fmt.Sprintf("%s.url is required", prefix))
	}
	if b.Backend == "ollama" && b.Model == "" {
		errors = append(errors, fmt.Sprintf("%s.model is required for the ollama backend", prefix))
	}
	if b.Timeout < 0 {
		errors = append(errors, fmt.Sprintf("%s.timeout must be >= 0, got: %v", prefix, b.Timeout))
	}
	if b.Retries < 0 {
		errors = append(errors, fmt.Sprintf("%s.retries must be >= 0, got: %d", prefix, b.Retries))
	}
	return errors
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
