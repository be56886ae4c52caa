package terrain

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Heightfield is an immutable row-major grid of elevations, Width cells
// along X and Depth cells along Z.
type Heightfield struct {
	width   int
	depth   int
	heights []float32
}

// NewHeightfield wraps heights, which must hold exactly width*depth values.
// The slice is owned by the heightfield afterwards.
func NewHeightfield(width, depth int, heights []float32) (*Heightfield, error) {
	if width < 0 || depth < 0 {
		return nil, fmt.Errorf("negative heightfield size %dx%d", width, depth)
	}
	if len(heights) != width*depth {
		return nil, fmt.Errorf("heightfield %dx%d needs %d heights, got %d", width, depth, width*depth, len(heights))
	}
	return &Heightfield{width: width, depth: depth, heights: heights}, nil
}

// Width returns the number of cells along X.
func (h *Heightfield) Width() int { return h.width }

// Depth returns the number of cells along Z.
func (h *Heightfield) Depth() int { return h.depth }

// Len returns Width*Depth.
func (h *Heightfield) Len() int { return len(h.heights) }

// At returns the elevation of cell (x, z). Coordinates must be in range.
func (h *Heightfield) At(x, z int) float32 {
	return h.heights[z*h.width+x]
}

// AtClamped returns the elevation of the nearest valid cell.
func (h *Heightfield) AtClamped(x, z int) float32 {
	x = min(max(x, 0), h.width-1)
	z = min(max(z, 0), h.depth-1)
	return h.At(x, z)
}

// Heights returns a copy of the raw grid.
func (h *Heightfield) Heights() []float32 {
	out := make([]float32, len(h.heights))
	copy(out, h.heights)
	return out
}

// Range returns the lowest and highest elevation. An empty heightfield
// reports (0, 0).
func (h *Heightfield) Range() (lo, hi float32) {
	if len(h.heights) == 0 {
		return 0, 0
	}
	lo, hi = math32.Inf(1), math32.Inf(-1)
	for _, v := range h.heights {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
