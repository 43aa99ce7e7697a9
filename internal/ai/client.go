// Package ai holds the clients for remote model backends: an HTTP inference
// service for detection and zero-shot classification, and an Ollama vision
// model that can stand in for either.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/go-resty/resty/v2"
)

// Client is an HTTP client for the inference service
type Client struct {
	http                *resty.Client
	serviceURL          string
	logger              *logger.Logger
	confidenceThreshold float64
	enabledClasses      []string
}

// ClientConfig contains configuration for the inference client
type ClientConfig struct {
	ServiceURL          string
	Timeout             time.Duration
	Retries             int
	RetryDelay          time.Duration
	ConfidenceThreshold float64  // forwarded as a server-side pre-filter when > 0
	EnabledClasses      []string // forwarded as a server-side class filter when set
}

// NewClient creates a new inference service client
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	serviceURL := strings.TrimRight(cfg.ServiceURL, "/")

	rc := resty.New().
		SetBaseURL(serviceURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryDelay).
		SetRetryMaxWaitTime(4 * cfg.RetryDelay).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:                rc,
		serviceURL:          serviceURL,
		logger:              log,
		confidenceThreshold: cfg.ConfidenceThreshold,
		enabledClasses:      cfg.EnabledClasses,
	}
}

// Infer sends one encoded image to the detection endpoint
func (c *Client) Infer(ctx context.Context, image []byte) (*InferenceResponse, error) {
	req := InferenceRequest{
		Image:          base64.StdEncoding.EncodeToString(image),
		EnabledClasses: c.enabledClasses,
	}
	if c.confidenceThreshold > 0 {
		threshold := c.confidenceThreshold
		req.ConfidenceThreshold = &threshold
	}

	var out InferenceResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Post("/api/v1/inference")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("Inference service returned error",
			"status", resp.StatusCode(),
			"response", truncate(resp.String(), 256),
		)
		return nil, fmt.Errorf("inference service returned status %d: %s", resp.StatusCode(), errorMessage(resp))
	}

	c.logger.Debug("Inference completed",
		"detection_count", len(out.BoundingBoxes),
		"inference_time_ms", out.InferenceTimeMs,
		"request_duration_ms", time.Since(start).Milliseconds(),
	)
	return &out, nil
}

// Detect implements scene.Detector. Pixel boxes are normalized by the
// frame shape reported with the response.
func (c *Client) Detect(ctx context.Context, image []byte) ([]scene.Detection, error) {
	resp, err := c.Infer(ctx, image)
	if err != nil {
		return nil, err
	}
	return resp.Detections()
}

// Classify implements scene.Classifier using the zero-shot endpoint
func (c *Client) Classify(ctx context.Context, image []byte, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", errors.New("no labels to classify against")
	}

	var out ClassifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(ClassifyRequest{
			Image:  base64.StdEncoding.EncodeToString(image),
			Labels: labels,
		}).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Post("/api/v1/classify")
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("classification service returned status %d: %s", resp.StatusCode(), errorMessage(resp))
	}

	label, err := out.Best()
	if err != nil {
		return "", err
	}
	c.logger.Debug("Classification completed", "label", label, "inference_time_ms", out.InferenceTimeMs)
	return label, nil
}

// HealthCheck probes the service readiness endpoint
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health/ready")
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("inference service returned status %d", resp.StatusCode())
	}
	return nil
}

// URL returns the service base URL
func (c *Client) URL() string {
	return c.serviceURL
}

// Detections converts pixel boxes into normalized scene detections
func (r *InferenceResponse) Detections() ([]scene.Detection, error) {
	if len(r.BoundingBoxes) == 0 {
		return []scene.Detection{}, nil
	}
	if len(r.FrameShape) < 2 || r.FrameShape[0] <= 0 || r.FrameShape[1] <= 0 {
		return nil, fmt.Errorf("invalid frame_shape %v", r.FrameShape)
	}
	h, w := float64(r.FrameShape[0]), float64(r.FrameShape[1])

	dets := make([]scene.Detection, 0, len(r.BoundingBoxes))
	for _, bb := range r.BoundingBoxes {
		dets = append(dets, scene.Detection{
			Label:      bb.ClassName,
			Confidence: bb.Confidence,
			Box: scene.Box{
				X1: bb.X1 / w,
				Y1: bb.Y1 / h,
				X2: bb.X2 / w,
				Y2: bb.Y2 / h,
			},
		})
	}
	return dets, nil
}

// Best returns the highest scoring label, or the explicit label when no
// scores were sent
func (r *ClassifyResponse) Best() (string, error) {
	if len(r.Scores) == 0 {
		if r.Label == "" {
			return "", errors.New("classification response has no label")
		}
		return r.Label, nil
	}
	best := r.Scores[0]
	for _, s := range r.Scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Label, nil
}

func errorMessage(resp *resty.Response) string {
	if e, ok := resp.Error().(*ErrorResponse); ok && e != nil {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return truncate(resp.String(), 256)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
