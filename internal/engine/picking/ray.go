// Package picking casts rays from the screen into the world and intersects
// them with boxes and the terrain surface.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // normalized
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 { return r.Origin.Add(r.Direction.Mul(t)) }

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])},
		Max: mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])},
	}
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of projection * view.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // window Y grows downwards

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	w := inv.Mul4x1(p)
	if w[3] != 0 {
		return w.Vec3().Mul(1 / w[3])
	}
	return w.Vec3()
}

// IntersectPlaneY intersects the ray with the horizontal plane y = planeY.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction[1]) < 0.001 {
		return 0, 0, false
	}
	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return 0, 0, false
	}
	p := r.At(t)
	return p[0], p[2], true
}

// IntersectAABB returns the entry distance of the ray into box, or the exit
// distance when the origin is inside.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// HeightFunc samples the ground height at a world XZ position. ok is false
// outside the sampled area.
type HeightFunc func(x, z float32) (y float32, ok bool)

// Number of bisection steps once the march brackets the surface.
const refineSteps = 16

// IntersectSurface marches the ray in fixed steps up to maxDist and returns
// the first point at or below the surface, refined by bisection. Steps that
// leave the sampled area are skipped.
func (r Ray) IntersectSurface(height HeightFunc, step, maxDist float32) (mgl32.Vec3, bool) {
	if step <= 0 || maxDist <= 0 {
		return mgl32.Vec3{}, false
	}

	above := func(t float32) (bool, bool) {
		p := r.At(t)
		y, ok := height(p[0], p[2])
		return p[1] > y, ok
	}

	prev := float32(0)
	prevValid := false
	for t := float32(0); t <= maxDist; t += step {
		up, ok := above(t)
		if !ok {
			prevValid = false
			continue
		}
		if !up {
			if !prevValid {
				// Started under the surface or entered the area below it.
				return r.At(t), true
			}
			lo, hi := prev, t
			for i := 0; i < refineSteps; i++ {
				mid := (lo + hi) / 2
				if u, ok := above(mid); ok && u {
					lo = mid
				} else {
					hi = mid
				}
			}
			return r.At(hi), true
		}
		prev, prevValid = t, true
	}
	return mgl32.Vec3{}, false
}
