package scene

import "fmt"

// DimensionMode selects how pixel sizes map to room units
type DimensionMode string

const (
	// ModeLinear multiplies pixel sizes by a fixed scale
	ModeLinear DimensionMode = "linear"
	// ModeWallHeight scales the image so its height equals the wall height
	ModeWallHeight DimensionMode = "wall_height"
)

// DimensionEstimator derives room dimensions from the image size alone
type DimensionEstimator struct {
	Mode       DimensionMode
	Scale      float64
	WallHeight float64
	Height     float64 // fixed height reported in linear mode, 0 omits it
}

// Estimate maps a pixel size to room dimensions rounded to one decimal
func (e DimensionEstimator) Estimate(width, height int) (Dimensions, error) {
	if width <= 0 || height <= 0 {
		return Dimensions{}, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	if e.Mode == ModeWallHeight {
		scale := e.WallHeight / float64(height)
		return Dimensions{
			Breadth: round1(float64(width) * scale),
			Length:  round1(float64(height) * scale),
			Height:  round1(e.WallHeight),
		}, nil
	}

	return Dimensions{
		Breadth: round1(float64(width) * e.Scale),
		Length:  round1(float64(height) * e.Scale),
		Height:  round1(e.Height),
	}, nil
}

// Default is substituted when the image cannot be measured
func (e DimensionEstimator) Default() Dimensions {
	d := Dimensions{Breadth: 5.0, Length: 4.0, Height: e.Height}
	if e.Mode == ModeWallHeight {
		d.Height = e.WallHeight
	}
	return d
}
