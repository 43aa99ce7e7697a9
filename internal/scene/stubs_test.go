package scene

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	dets  []Detection
	err   error
	calls int
}

func (s *stubDetector) Detect(ctx context.Context, image []byte) ([]Detection, error) {
	s.calls++
	return s.dets, s.err
}

type stubClassifier struct {
	label  string
	err    error
	labels []string
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, image []byte, labels []string) (string, error) {
	s.calls++
	s.labels = labels
	return s.label, s.err
}

type stubPalette struct {
	colors []color.RGBA
	err    error
}

func (s *stubPalette) Palette(img image.Image, k int) ([]color.RGBA, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.colors) > k {
		return s.colors[:k], nil
	}
	return s.colors, nil
}

// pngCodec decodes PNG only and passes images through unchanged
type pngCodec struct{}

func (pngCodec) Decode(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

func (pngCodec) PrepareForModel(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var errBackendDown = errors.New("backend down")

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
