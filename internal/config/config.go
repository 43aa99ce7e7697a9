package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Models   ModelsConfig   `yaml:"models"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	MaxUploadMB  int           `yaml:"max_upload_mb"` // per file part
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// PipelineConfig selects the scene-building strategies
type PipelineConfig struct {
	Classifier        string           `yaml:"classifier"` // model or rotation
	Rotation          []string         `yaml:"rotation"`
	Labels            []string         `yaml:"labels"`
	OutdoorLabels     []string         `yaml:"outdoor_labels"`
	Dimensions        DimensionsConfig `yaml:"dimensions"`
	Colors            ColorsConfig     `yaml:"colors"`
	Detection         DetectionConfig  `yaml:"detection"`
	Layout            LayoutConfig     `yaml:"layout"`
	ModelMaxDimension int              `yaml:"model_max_dimension"`
	ModelJPEGQuality  int              `yaml:"model_jpeg_quality"`
}

// DimensionsConfig contains room size estimation settings
type DimensionsConfig struct {
	Mode       string  `yaml:"mode"` // linear or wall_height
	Scale      float64 `yaml:"scale"`
	WallHeight float64 `yaml:"wall_height"`
	Height     float64 `yaml:"height"` // fixed height for linear mode, 0 omits it
}

// ColorsConfig contains palette settings
type ColorsConfig struct {
	Count int `yaml:"count"`
}

// DetectionConfig contains furniture detection settings
type DetectionConfig struct {
	ConfidenceThreshold float64   `yaml:"confidence_threshold"`
	AllowedClasses      []string  `yaml:"allowed_classes"`
	FallbackType        string    `yaml:"fallback_type"`
	FallbackPosition    []float64 `yaml:"fallback_position"`
}

// LayoutConfig contains scene layout settings
type LayoutConfig struct {
	Spacing    float64 `yaml:"spacing"`
	Dimensions int     `yaml:"dimensions"` // 2 or 3 position components
}

// ModelsConfig contains model backend configuration
type ModelsConfig struct {
	Detector   BackendConfig `yaml:"detector"`
	Classifier BackendConfig `yaml:"classifier"`
}

// BackendConfig describes one remote model backend
type BackendConfig struct {
	Backend    string        `yaml:"backend"` // http, ollama or none
	URL        string        `yaml:"url"`
	Model      string        `yaml:"model"` // ollama model name
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// NotifyConfig contains scene notification sinks
type NotifyConfig struct {
	Redis RedisConfig `yaml:"redis"`
	MQTT  MQTTConfig  `yaml:"mqtt"`
}

// RedisConfig contains Redis Streams sink configuration
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"max_len"`
}

// MQTTConfig contains MQTT sink configuration
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"` // never logged
	Topic    string `yaml:"topic"`
	QoS      int    `yaml:"qos"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MaxUploadBytes returns the per-part size cap in bytes
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Default returns a configuration holding only built-in defaults
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads the configuration file, applies .env and environment overrides,
// fills defaults and validates the result. An empty path searches the usual
// locations and falls back to built-in defaults when none exists.
func Load(configPath string) (*Config, error) {
	loadDotEnv()

	explicit := configPath != ""
	if !explicit {
		configPath = getDefaultConfigPath()
	}

	cfg := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse configuration: %w", err)
			}
		case os.IsNotExist(err) && explicit:
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getDefaultConfigPath returns the first existing default location, or ""
func getDefaultConfigPath() string {
	paths := []string{
		"./config/config.yaml",
		"../config/config.yaml",
		"/etc/roomify/config.yaml",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 32
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 5 * time.Minute
	}

	p := &c.Pipeline
	if p.Classifier == "" {
		p.Classifier = "model"
	}
	if len(p.Rotation) == 0 {
		p.Rotation = []string{"living_room", "kitchen", "bedroom", "bathroom"}
	}
	if len(p.Labels) == 0 {
		p.Labels = []string{"living room", "kitchen", "bedroom", "bathroom", "outdoor", "desert", "park", "street"}
	}
	if len(p.OutdoorLabels) == 0 {
		p.OutdoorLabels = []string{"outdoor", "desert", "park", "street"}
	}
	if p.Dimensions.Mode == "" {
		p.Dimensions.Mode = "linear"
	}
	if p.Dimensions.Scale == 0 {
		p.Dimensions.Scale = 0.1
	}
	if p.Dimensions.WallHeight == 0 {
		p.Dimensions.WallHeight = 3.0
	}
	if p.Colors.Count == 0 {
		p.Colors.Count = 1
	}
	if p.Detection.ConfidenceThreshold == 0 {
		p.Detection.ConfidenceThreshold = 0.3
	}
	if len(p.Detection.AllowedClasses) == 0 {
		p.Detection.AllowedClasses = []string{
			"chair", "couch", "sofa", "bed", "dining table", "toilet", "tv",
			"potted plant", "bench", "refrigerator", "oven", "microwave",
			"sink", "toaster", "clock", "vase", "laptop", "book",
		}
	}
	if p.Detection.FallbackType == "" {
		p.Detection.FallbackType = "chair"
	}
	if len(p.Detection.FallbackPosition) == 0 {
		p.Detection.FallbackPosition = []float64{2.0, 1.0}
	}
	if p.Layout.Spacing == 0 {
		p.Layout.Spacing = 50.0
	}
	if p.Layout.Dimensions == 0 {
		p.Layout.Dimensions = 2
	}
	if p.ModelMaxDimension == 0 {
		p.ModelMaxDimension = 1024
	}
	if p.ModelJPEGQuality == 0 {
		p.ModelJPEGQuality = 90
	}

	setBackendDefaults(&c.Models.Detector, "http://localhost:8080")
	setBackendDefaults(&c.Models.Classifier, "http://localhost:8080")

	if c.Notify.Redis.Addr == "" {
		c.Notify.Redis.Addr = "localhost:6379"
	}
	if c.Notify.Redis.Stream == "" {
		c.Notify.Redis.Stream = "roomify:scenes"
	}
	if c.Notify.MQTT.Broker == "" {
		c.Notify.MQTT.Broker = "tcp://localhost:1883"
	}
	if c.Notify.MQTT.ClientID == "" {
		c.Notify.MQTT.ClientID = "roomify-scene-builder"
	}
	if c.Notify.MQTT.Topic == "" {
		c.Notify.MQTT.Topic = "roomify/scenes"
	}
}

func setBackendDefaults(b *BackendConfig, url string) {
	if b.Backend == "" {
		b.Backend = "http"
	}
	if b.URL == "" {
		if b.Backend == "ollama" {
			b.URL = "http://localhost:11434"
		} else {
			b.URL = url
		}
	}
	if b.Model == "" && b.Backend == "ollama" {
		b.Model = "llava"
	}
	if b.Timeout == 0 {
		b.Timeout = 30 * time.Second
	}
	if b.RetryDelay == 0 {
		b.RetryDelay = 500 * time.Millisecond
	}
}
