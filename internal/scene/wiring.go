package scene

import (
	"fmt"

	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/logger"
)

// Backends are the external capabilities a Builder needs. Nil detector or
// classifier makes the corresponding stage fall back to its defaults.
type Backends struct {
	Codec      ImageCodec
	Palette    PaletteExtractor
	Detector   Detector
	Classifier Classifier
}

// NewBuilderFromConfig assembles a Builder from pipeline configuration
func NewBuilderFromConfig(cfg config.PipelineConfig, backends Backends, log *logger.Logger) (*Builder, error) {
	var assigner RoomTypeAssigner
	switch cfg.Classifier {
	case "model":
		assigner = NewModelAssigner(backends.Classifier, cfg.Labels, cfg.OutdoorLabels)
	case "rotation":
		rotation := make([]RoomType, 0, len(cfg.Rotation))
		for _, r := range cfg.Rotation {
			rt := RoomType(r)
			if !rt.Valid() {
				return nil, fmt.Errorf("unknown room type in rotation: %s", r)
			}
			rotation = append(rotation, rt)
		}
		assigner = NewRotationAssigner(rotation)
	default:
		return nil, fmt.Errorf("unknown classifier strategy: %s", cfg.Classifier)
	}

	var fallbackPos [2]float64
	copy(fallbackPos[:], cfg.Detection.FallbackPosition)

	return NewBuilder(Options{
		Codec: backends.Codec,
		Dimensions: DimensionEstimator{
			Mode:       DimensionMode(cfg.Dimensions.Mode),
			Scale:      cfg.Dimensions.Scale,
			WallHeight: cfg.Dimensions.WallHeight,
			Height:     cfg.Dimensions.Height,
		},
		Colors: ColorExtractor{
			Palette: backends.Palette,
			Count:   cfg.Colors.Count,
		},
		Assigner: assigner,
		Furniture: NewFurnitureDetector(backends.Detector, FurnitureOptions{
			Threshold:        cfg.Detection.ConfidenceThreshold,
			AllowedClasses:   cfg.Detection.AllowedClasses,
			FallbackType:     cfg.Detection.FallbackType,
			FallbackPosition: fallbackPos,
			Dimensions:       cfg.Layout.Dimensions,
		}),
		Layout: NewComposer(cfg.Layout.Spacing, cfg.Layout.Dimensions, log),
	}, log), nil
}
