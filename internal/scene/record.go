// Package scene turns uploaded room photographs into a simplified scene:
// one RoomRecord per image, laid out side by side on a common axis.
package scene

import "math"

// RoomType is the category assigned to a room
type RoomType string

const (
	LivingRoom RoomType = "living_room"
	Kitchen    RoomType = "kitchen"
	Bedroom    RoomType = "bedroom"
	Bathroom   RoomType = "bathroom"
	Outdoor    RoomType = "outdoor"
)

// Valid reports whether t is one of the known room types
func (t RoomType) Valid() bool {
	switch t {
	case LivingRoom, Kitchen, Bedroom, Bathroom, Outdoor:
		return true
	}
	return false
}

// Position is a point in scene space: [x, y] or [x, y, z]
type Position []float64

// Dimensions is the estimated room footprint in scene units
type Dimensions struct {
	Breadth float64 `json:"breadth"`
	Length  float64 `json:"length"`
	Height  float64 `json:"height,omitempty"`
}

// FurnitureItem is a detected object placed inside a room
type FurnitureItem struct {
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

// RoomRecord describes one accepted upload
type RoomRecord struct {
	RoomNo         int             `json:"roomno"`
	RoomType       RoomType        `json:"roomtype"`
	Position       Position        `json:"position"`
	Dimensions     Dimensions      `json:"dimensions"`
	RoomColor      string          `json:"room_color"`
	Colors         []string        `json:"colors"`
	Furniture      []FurnitureItem `json:"furniture"`
	FurnitureCount int             `json:"furniture_count"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func origin(dims int) Position {
	if dims == 3 {
		return Position{0, 0, 0}
	}
	return Position{0, 0}
}

// planar maps a floor-plane point (x, y) into a Position of the given
// dimensionality. In 3-D the floor plane is x/z with y pointing up.
func planar(x, y float64, dims int) Position {
	if dims == 3 {
		return Position{x, 0, y}
	}
	return Position{x, y}
}
