package vegetation

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/terrain"
)

// InvalidHeight is returned for queries outside the grid. It lies below any
// plausible acceptance band.
const InvalidHeight float32 = -1e6

// HeightAt samples the ground elevation at world (x, z) by bilinear
// interpolation of the four surrounding cells. origin is the world position
// of cell (0, 0); its Y is added to the result. Local coordinates that are
// negative, not below mapWidth-1 on either axis, or NaN return InvalidHeight.
func HeightAt(x, z float32, origin mgl32.Vec3, hf *terrain.Heightfield, mapWidth int) float32 {
	return sample(x, z, origin, hf, mapWidth, mapWidth)
}

// HeightAtGrid is HeightAt bounded by the grid's own width and depth, for
// rectangular terrain.
func HeightAtGrid(x, z float32, origin mgl32.Vec3, hf *terrain.Heightfield) float32 {
	if hf == nil {
		return InvalidHeight
	}
	return sample(x, z, origin, hf, hf.Width(), hf.Depth())
}

func sample(x, z float32, origin mgl32.Vec3, hf *terrain.Heightfield, width, depth int) float32 {
	lx := x - origin.X()
	lz := z - origin.Z()
	if !(lx >= 0 && lx < float32(width-1) && lz >= 0 && lz < float32(depth-1)) {
		return InvalidHeight
	}

	x0 := int(math32.Floor(lx))
	z0 := int(math32.Floor(lz))
	x1, z1 := x0+1, z0+1
	if hf == nil || x1 >= hf.Width() || z1 >= hf.Depth() {
		return InvalidHeight
	}

	fx := lx - float32(x0)
	fz := lz - float32(z0)

	h0 := lerp(hf.At(x0, z0), hf.At(x1, z0), fx)
	h1 := lerp(hf.At(x0, z1), hf.At(x1, z1), fx)
	return lerp(h0, h1, fz) + origin.Y()
}

func lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}
