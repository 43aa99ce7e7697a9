package scene

import (
	"context"
	"image"
	"image/color"
)

// Box is a bounding box normalized to the image size, all values in [0, 1]
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Center returns the normalized box center
func (b Box) Center() (float64, float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Detection is one object reported by a detection backend
type Detection struct {
	Label      string
	Confidence float64
	Box        Box
}

// Detector finds objects in an encoded image
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]Detection, error)
}

// Classifier picks the label that best describes an encoded image
type Classifier interface {
	Classify(ctx context.Context, image []byte, labels []string) (string, error)
}

// PaletteExtractor returns up to k dominant colors, most dominant first
type PaletteExtractor interface {
	Palette(img image.Image, k int) ([]color.RGBA, error)
}

// ImageCodec decodes uploads and re-encodes them for model backends
type ImageCodec interface {
	Decode(data []byte) (image.Image, error)
	PrepareForModel(img image.Image) ([]byte, error)
}
