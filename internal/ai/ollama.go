package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/logger"
	"github.com/bhargavsai259/collegeproject/internal/scene"
	"github.com/ollama/ollama/api"
)

const classifyPrompt = `Look at this photo of a room or place.
Which one of these categories describes it best: %s?
Answer with the category name only.`

const detectPrompt = `List the furniture and household objects visible in this photo.
Respond with strict JSON only, no prose, in this form:
{"objects":[{"label":"chair","confidence":0.9,"box":{"x":0.1,"y":0.2,"w":0.3,"h":0.4}}]}
Box values are fractions of the image width and height. Use lowercase COCO class names such as %s.`

// OllamaClient talks to a local Ollama server running a vision model
type OllamaClient struct {
	client  *api.Client
	baseURL string
	model   string
	timeout time.Duration
	classes []string
	logger  *logger.Logger
}

// OllamaConfig contains configuration for the Ollama client
type OllamaConfig struct {
	URL     string
	Model   string
	Timeout time.Duration
	Classes []string // class names suggested in the detection prompt
}

// NewOllamaClient creates a client for the server at cfg.URL
func NewOllamaClient(cfg OllamaConfig, log *logger.Logger) (*OllamaClient, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", cfg.URL)
	}
	if cfg.Model == "" {
		return nil, errors.New("ollama model is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}

	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &OllamaClient{
		client:  api.NewClient(base, http.DefaultClient),
		baseURL: base.String(),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		classes: cfg.Classes,
		logger:  log,
	}, nil
}

func (c *OllamaClient) chat(ctx context.Context, prompt string, image []byte, format json.RawMessage) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{{
			Role:    "user",
			Content: prompt,
			Images:  []api.ImageData{api.ImageData(image)},
		}},
		Stream:  &stream,
		Format:  format,
		Options: map[string]any{"temperature": 0},
	}

	var content strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}
	if content.Len() == 0 {
		return "", errors.New("empty response from ollama")
	}
	return content.String(), nil
}

// Classify implements scene.Classifier by asking the model to name one label
func (c *OllamaClient) Classify(ctx context.Context, image []byte, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", errors.New("no labels to classify against")
	}
	reply, err := c.chat(ctx, fmt.Sprintf(classifyPrompt, strings.Join(labels, ", ")), image, nil)
	if err != nil {
		return "", err
	}
	label, ok := matchLabel(reply, labels)
	if !ok {
		return "", fmt.Errorf("model reply %q matches no label", truncate(reply, 80))
	}
	c.logger.Debug("Ollama classification completed", "model", c.model, "label", label)
	return label, nil
}

// matchLabel finds the label named in a free-text reply. An exact match
// wins, otherwise the longest label contained in the reply.
func matchLabel(reply string, labels []string) (string, bool) {
	norm := normalizeLabel(strings.Trim(strings.TrimSpace(reply), ".\"'`"))
	for _, l := range labels {
		if norm == normalizeLabel(l) {
			return l, true
		}
	}

	sorted := append([]string(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, l := range sorted {
		if strings.Contains(norm, normalizeLabel(l)) {
			return l, true
		}
	}
	return "", false
}

func normalizeLabel(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", " ")
}

type ollamaObject struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"box"`
}

type ollamaDetections struct {
	Objects []ollamaObject `json:"objects"`
}

// Detect implements scene.Detector by asking the model for a JSON object list
func (c *OllamaClient) Detect(ctx context.Context, image []byte) ([]scene.Detection, error) {
	classes := "chair, couch, bed, dining table, tv"
	if len(c.classes) > 0 {
		classes = strings.Join(c.classes, ", ")
	}
	reply, err := c.chat(ctx, fmt.Sprintf(detectPrompt, classes), image, json.RawMessage(`"json"`))
	if err != nil {
		return nil, err
	}
	dets, err := parseDetections(reply)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Ollama detection completed", "model", c.model, "detection_count", len(dets))
	return dets, nil
}

func parseDetections(raw string) ([]scene.Detection, error) {
	clean := sanitizeModelJSON(raw)
	if !strings.HasPrefix(clean, "{") {
		return nil, fmt.Errorf("model returned non-JSON response: %q", truncate(raw, 80))
	}

	var parsed ollamaDetections
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	dets := make([]scene.Detection, 0, len(parsed.Objects))
	for _, o := range parsed.Objects {
		if o.Label == "" {
			continue
		}
		dets = append(dets, scene.Detection{
			Label:      strings.ToLower(strings.TrimSpace(o.Label)),
			Confidence: o.Confidence,
			Box: scene.Box{
				X1: o.Box.X,
				Y1: o.Box.Y,
				X2: o.Box.X + o.Box.W,
				Y2: o.Box.Y + o.Box.H,
			},
		})
	}
	return dets, nil
}

// HealthCheck pings the Ollama server
func (c *OllamaClient) HealthCheck(ctx context.Context) error {
	if err := c.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	return nil
}

// URL returns the server address and model, for health reports
func (c *OllamaClient) URL() string {
	return c.baseURL + " (" + c.model + ")"
}
