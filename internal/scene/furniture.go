package scene

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FurnitureDetector filters detections down to furniture and places them
// inside the room footprint
type FurnitureDetector struct {
	detector  Detector
	threshold float64
	allowed   map[string]bool
	fallback  FurnitureItem
	dims      int
}

// FurnitureOptions configures a FurnitureDetector
type FurnitureOptions struct {
	Threshold        float64
	AllowedClasses   []string
	FallbackType     string
	FallbackPosition [2]float64
	Dimensions       int
}

// NewFurnitureDetector creates a detector stage around a detection backend
func NewFurnitureDetector(detector Detector, opts FurnitureOptions) *FurnitureDetector {
	allowed := make(map[string]bool, len(opts.AllowedClasses))
	for _, c := range opts.AllowedClasses {
		allowed[strings.ToLower(strings.TrimSpace(c))] = true
	}
	if opts.FallbackType == "" {
		opts.FallbackType = "chair"
	}
	dims := opts.Dimensions
	if dims != 3 {
		dims = 2
	}
	return &FurnitureDetector{
		detector:  detector,
		threshold: opts.Threshold,
		allowed:   allowed,
		fallback: FurnitureItem{
			Type:     opts.FallbackType,
			Position: planar(opts.FallbackPosition[0], opts.FallbackPosition[1], dims),
		},
		dims: dims,
	}
}

// Qualifies reports whether a detection counts as furniture: confidence
// strictly above the threshold and an allow-listed label
func (d *FurnitureDetector) Qualifies(det Detection) bool {
	return det.Confidence > d.threshold && d.allowed[strings.ToLower(strings.TrimSpace(det.Label))]
}

// Place keeps qualifying detections in order and maps each box center from
// normalized image space into the room footprint
func (d *FurnitureDetector) Place(dets []Detection, room Dimensions) []FurnitureItem {
	items := make([]FurnitureItem, 0, len(dets))
	for _, det := range dets {
		if !d.Qualifies(det) {
			continue
		}
		cx, cy := det.Box.Center()
		items = append(items, FurnitureItem{
			Type:     det.Label,
			Position: planar(round1(clamp01(cx)*room.Breadth), round1(clamp01(cy)*room.Length), d.dims),
		})
	}
	return items
}

// Detect runs the backend and returns the placed furniture, possibly empty
func (d *FurnitureDetector) Detect(ctx context.Context, image []byte, room Dimensions) ([]FurnitureItem, error) {
	if d.detector == nil {
		return nil, errors.New("no detector configured")
	}
	dets, err := d.detector.Detect(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	return d.Place(dets, room), nil
}

// Fallback returns the single item used when nothing was detected
func (d *FurnitureDetector) Fallback() []FurnitureItem {
	pos := make(Position, len(d.fallback.Position))
	copy(pos, d.fallback.Position)
	return []FurnitureItem{{Type: d.fallback.Type, Position: pos}}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
