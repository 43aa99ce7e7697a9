package imageproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKMeansPalette_SolidColor(t *testing.T) {
	colors, err := KMeansPalette{}.Palette(solid(60, 40, color.RGBA{R: 180, G: 40, B: 60, A: 255}), 1)
	require.NoError(t, err)
	require.Len(t, colors, 1)

	assert.InDelta(t, 180, int(colors[0].R), 4)
	assert.InDelta(t, 40, int(colors[0].G), 4)
	assert.InDelta(t, 60, int(colors[0].B), 4)
	assert.Equal(t, uint8(255), colors[0].A)
}

func TestKMeansPalette_DominantFirst(t *testing.T) {
	img := solid(80, 80, color.RGBA{R: 30, G: 60, B: 200, A: 255})
	for y := 60; y < 80; y++ {
		for x := 0; x < 80; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 220, G: 180, B: 20, A: 255})
		}
	}

	colors, err := KMeansPalette{}.Palette(img, 2)
	require.NoError(t, err)
	require.Len(t, colors, 2)
	assert.Greater(t, int(colors[0].B), int(colors[0].R))
	assert.Greater(t, int(colors[1].R), int(colors[1].B))
}

func TestKMeansPalette_WhiteImageFallsBackToUnmasked(t *testing.T) {
	colors, err := KMeansPalette{}.Palette(solid(20, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255}), 1)
	require.NoError(t, err)
	require.Len(t, colors, 1)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, colors[0])
}

func TestKMeansPalette_InvalidInput(t *testing.T) {
	_, err := KMeansPalette{}.Palette(nil, 1)
	assert.Error(t, err)

	_, err = KMeansPalette{}.Palette(image.NewRGBA(image.Rect(0, 0, 0, 0)), 1)
	assert.Error(t, err)
}
