package imageproc

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/EdlinOrg/prominentcolor"
)

// KMeansPalette extracts dominant colors with k-means clustering
type KMeansPalette struct{}

// Palette returns up to k colors ordered by pixel count, largest first
func (KMeansPalette) Palette(img image.Image, k int) ([]color.RGBA, error) {
	if img == nil {
		return nil, errors.New("palette: nil image")
	}
	if k < 1 {
		k = 1
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("palette: empty image")
	}

	// images are downsampled to DefaultSize before clustering
	items, err := prominentcolor.KmeansWithAll(k, img, prominentcolor.ArgumentNoCropping, prominentcolor.DefaultSize, prominentcolor.GetDefaultMasks())
	if err != nil {
		// fully masked images (pure white/black/green) have no clusters left
		items, err = prominentcolor.KmeansWithAll(k, img, prominentcolor.ArgumentNoCropping, prominentcolor.DefaultSize, []prominentcolor.ColorBackgroundMask{})
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
	}

	out := make([]color.RGBA, 0, len(items))
	for _, it := range items {
		out = append(out, color.RGBA{
			R: uint8(it.Color.R),
			G: uint8(it.Color.G),
			B: uint8(it.Color.B),
			A: 255,
		})
	}
	return out, nil
}
