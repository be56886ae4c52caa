package model

import "github.com/go-gl/mathgl/mgl32"

// CubeData returns a unit cube centered on the origin with per-face normals,
// used for the light source marker.
func CubeData() MeshData {
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	d := MeshData{Name: "cube"}
	for _, f := range faces {
		base := uint32(len(d.Vertices))
		center := f.normal.Mul(0.5)
		for _, c := range corners {
			p := center.
				Add(f.u.Mul(c.X() - 0.5)).
				Add(f.v.Mul(c.Y() - 0.5))
			d.Vertices = append(d.Vertices, Vertex{Position: p, Normal: f.normal, TexCoord: c})
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}
