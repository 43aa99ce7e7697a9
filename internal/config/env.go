package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv loads variables from a .env file in the working directory.
// A missing file is not an error and variables already set win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// applyEnvOverrides applies ROOMIFY_* environment variables on top of the file
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ROOMIFY_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("ROOMIFY_PORT"); val != "" {
		if port, err := parseInt(val); err == nil {
			cfg.Server.Port = port
		}
	}

	if val := os.Getenv("ROOMIFY_CLASSIFIER"); val != "" {
		cfg.Pipeline.Classifier = val
	}
	if val := os.Getenv("ROOMIFY_CONFIDENCE_THRESHOLD"); val != "" {
		if threshold, err := parseFloat64(val); err == nil {
			cfg.Pipeline.Detection.ConfidenceThreshold = threshold
		}
	}
	if val := os.Getenv("ROOMIFY_ALLOWED_CLASSES"); val != "" {
		classes := strings.Split(val, ",")
		for i := range classes {
			classes[i] = strings.TrimSpace(classes[i])
		}
		cfg.Pipeline.Detection.AllowedClasses = classes
	}

	if val := os.Getenv("ROOMIFY_DETECTOR_BACKEND"); val != "" {
		cfg.Models.Detector.Backend = val
	}
	if val := os.Getenv("ROOMIFY_DETECTOR_URL"); val != "" {
		cfg.Models.Detector.URL = val
	}
	if val := os.Getenv("ROOMIFY_CLASSIFIER_BACKEND"); val != "" {
		cfg.Models.Classifier.Backend = val
	}
	if val := os.Getenv("ROOMIFY_CLASSIFIER_URL"); val != "" {
		cfg.Models.Classifier.URL = val
	}

	if val := os.Getenv("ROOMIFY_REDIS_ADDR"); val != "" {
		cfg.Notify.Redis.Addr = val
		cfg.Notify.Redis.Enabled = true
	}
	if val := os.Getenv("ROOMIFY_REDIS_PASSWORD"); val != "" {
		cfg.Notify.Redis.Password = val
	}
	if val := os.Getenv("ROOMIFY_MQTT_BROKER"); val != "" {
		cfg.Notify.MQTT.Broker = val
		cfg.Notify.MQTT.Enabled = true
	}
	if val := os.Getenv("ROOMIFY_MQTT_USERNAME"); val != "" {
		cfg.Notify.MQTT.Username = val
	}
	if val := os.Getenv("ROOMIFY_MQTT_PASSWORD"); val != "" {
		cfg.Notify.MQTT.Password = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv("LOG_OUTPUT"); val != "" {
		cfg.Log.Output = val
	}
}

func parseInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	return result, err
}

func parseFloat64(s string) (float64, error) {
	var result float64
	_, err := fmt.Sscanf(s, "%f", &result)
	return result, err
}
