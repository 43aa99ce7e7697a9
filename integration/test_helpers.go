package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/ai"
	"github.com/bhargavsai259/collegeproject/internal/app"
	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/logger"
)

// FakeModelService stands in for the inference service. Classification
// answers are served in order, one per call.
type FakeModelService struct {
	Server *httptest.Server

	mu             sync.Mutex
	classifyLabels []string
	classifyCalls  int
	inferCalls     int
	boxes          []ai.BoundingBox
	frameShape     []int
}

// NewFakeModelService starts a fake inference service
func NewFakeModelService(t *testing.T, labels []string, boxes []ai.BoundingBox, frameShape []int) *FakeModelService {
	t.Helper()
	f := &FakeModelService{classifyLabels: labels, boxes: boxes, frameShape: frameShape}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/classify", f.handleClassify)
	mux.HandleFunc("/api/v1/inference", f.handleInference)
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeModelService) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ai.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		writeJSON(w, http.StatusUnprocessableEntity, ai.ErrorResponse{Detail: "bad request"})
		return
	}

	f.mu.Lock()
	label := f.classifyLabels[f.classifyCalls%len(f.classifyLabels)]
	f.classifyCalls++
	f.mu.Unlock()

	scores := make([]ai.LabelScore, 0, len(req.Labels))
	for _, l := range req.Labels {
		score := 0.01
		if l == label {
			score = 0.9
		}
		scores = append(scores, ai.LabelScore{Label: l, Score: score})
	}
	writeJSON(w, http.StatusOK, ai.ClassifyResponse{Scores: scores})
}

func (f *FakeModelService) handleInference(w http.ResponseWriter, r *http.Request) {
	var req ai.InferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		writeJSON(w, http.StatusUnprocessableEntity, ai.ErrorResponse{Detail: "bad request"})
		return
	}

	f.mu.Lock()
	f.inferCalls++
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, ai.InferenceResponse{
		BoundingBoxes:  f.boxes,
		FrameShape:     f.frameShape,
		DetectionCount: len(f.boxes),
	})
}

// Calls returns the number of classify and inference requests served
func (f *FakeModelService) Calls() (classify, infer int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classifyCalls, f.inferCalls
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// TestConfig returns defaults pointed at modelURL, bound to a random port
func TestConfig(modelURL string) *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Models.Detector.URL = modelURL
	cfg.Models.Classifier.URL = modelURL
	cfg.Models.Detector.Timeout = 5 * time.Second
	cfg.Models.Classifier.Timeout = 5 * time.Second
	return cfg
}

// StartApp starts the full application and stops it when the test ends
func StartApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(cfg, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	ctx, cancel := ContextWithTimeout(5 * time.Second)
	defer cancel()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Failed to start app: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := ContextWithTimeout(5 * time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return a
}

// Part is one file in a multipart upload
type Part struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// PostMultipart uploads parts to url
func PostMultipart(t *testing.T, url string, parts []Part) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.Field, p.Filename))
		h.Set("Content-Type", p.ContentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("Failed to create part: %v", err)
		}
		_, _ = pw.Write(p.Data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	resp, err := http.Post(url, w.FormDataContentType(), body)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	return resp
}

// SolidPNG encodes a w x h image of one color
func SolidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// WaitForCondition waits for a condition to become true
func WaitForCondition(timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		<-ticker.C
	}
	return false
}

// ContextWithTimeout creates a context with timeout for tests
func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
