// Package imageproc decodes uploaded photos, re-encodes them for model
// backends and extracts dominant colors.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when no decoder accepts the data
var ErrUnsupportedFormat = errors.New("image: unknown or unsupported format")

// Processor decodes images and prepares them for model backends
type Processor struct {
	maxDim  int
	quality int
}

// NewProcessor creates a processor. maxDim bounds the longer side of images
// sent to models (0 keeps the original size); quality is the JPEG quality.
func NewProcessor(maxDim, quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return &Processor{maxDim: maxDim, quality: quality}
}

// Decode decodes JPEG, PNG, GIF, BMP, TIFF and WebP data
func (p *Processor) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("image: empty data")
	}
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, ErrUnsupportedFormat
}

// PrepareForModel downscales the image so its longer side fits maxDim and
// encodes it as JPEG
func (p *Processor) PrepareForModel(img image.Image) ([]byte, error) {
	if p.maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > p.maxDim || h > p.maxDim {
			if w >= h {
				img = imaging.Resize(img, p.maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, p.maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
