package scene

import (
	"math"

	"github.com/bhargavsai259/collegeproject/internal/logger"
)

// Composer lays rooms out left to right along the x axis with a fixed gap
type Composer struct {
	spacing float64
	dims    int
	logger  *logger.Logger
}

// NewComposer creates a layout composer. dims selects 2- or 3-component positions.
func NewComposer(spacing float64, dims int, log *logger.Logger) *Composer {
	if dims != 3 {
		dims = 2
	}
	return &Composer{spacing: spacing, dims: dims, logger: log}
}

// Arrange assigns positions in slice order. Room i lands at the sum of the
// breadths of rooms 0..i-1 plus i gaps. Widths that are negative or not
// finite count as zero.
func (c *Composer) Arrange(rooms []RoomRecord) {
	offset := 0.0
	for i := range rooms {
		pos := origin(c.dims)
		pos[0] = round1(offset)
		rooms[i].Position = pos

		width := rooms[i].Dimensions.Breadth
		if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
			c.logger.Warn("Invalid room width treated as zero",
				"room", rooms[i].RoomNo,
				"breadth", width,
			)
			width = 0
		}
		offset += width + c.spacing
	}
}
