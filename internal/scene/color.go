package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var defaultPalette = []string{"#ffffff", "#f5f5f5"}

// HexColor formats a color as #rrggbb with lowercase digits
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DefaultColors returns the fallback palette of exactly k entries
func DefaultColors(k int) []string {
	if k < 1 {
		k = 1
	}
	out := make([]string, k)
	for i := range out {
		if i < len(defaultPalette) {
			out[i] = defaultPalette[i]
		} else {
			out[i] = defaultPalette[0]
		}
	}
	return out
}

// ColorExtractor produces the room palette from a decoded image
type ColorExtractor struct {
	Palette PaletteExtractor
	Count   int
}

// Extract returns exactly Count hex colors, dominant first. A short palette
// is padded from the defaults; any failure returns an error.
func (e ColorExtractor) Extract(img image.Image) ([]string, error) {
	if e.Palette == nil {
		return nil, errors.New("no palette extractor configured")
	}
	if img == nil {
		return nil, errors.New("no image")
	}

	k := e.Count
	if k < 1 {
		k = 1
	}
	colors, err := e.Palette.Palette(img, k)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	if len(colors) == 0 {
		return nil, errors.New("palette: no colors found")
	}

	out := DefaultColors(k)
	for i := 0; i < k && i < len(colors); i++ {
		out[i] = HexColor(colors[i])
	}
	return out, nil
}
