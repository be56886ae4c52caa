// Package terrain generates heightfields from fractal noise and turns them
// into renderable grid meshes.
package terrain

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// gridSpacing2 is twice the distance between neighboring grid vertices.
// It sets how steep a height difference looks relative to the grid.
const gridSpacing2 = 2.0

// Vertex is one terrain mesh vertex. Position is grid-local; the terrain's
// model matrix moves it into the world. TexCoord spans 0..1 across the grid.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoord  mgl32.Vec2
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// VertexSize is the byte stride of Vertex.
const VertexSize = int32(unsafe.Sizeof(Vertex{}))

// Bounds holds an axis-aligned bounding box in grid-local space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh holds terrain geometry ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// IndexCount returns (width-1)*(depth-1)*6 for the grid the mesh was built from.
func IndexCount(width, depth int) int {
	if width < 2 || depth < 2 {
		return 0
	}
	return (width - 1) * (depth - 1) * 6
}

// BuildMesh creates one vertex per heightfield cell and two triangles per
// grid quad. Normals, tangents and bitangents come from central differences;
// at the grid edge the missing neighbor is clamped to the edge cell.
func BuildMesh(hf *Heightfield) *Mesh {
	width, depth := hf.Width(), hf.Depth()
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, width*depth),
		Indices:  make([]uint32, 0, IndexCount(width, depth)),
	}
	if width == 0 || depth == 0 {
		return mesh
	}

	lo, hi := hf.Range()
	mesh.Bounds = Bounds{
		Min: mgl32.Vec3{0, lo, 0},
		Max: mgl32.Vec3{float32(width - 1), hi, float32(depth - 1)},
	}

	for z := range depth {
		for x := range width {
			n, t, b := basis(hf, x, z)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position:  mgl32.Vec3{float32(x), hf.At(x, z), float32(z)},
				Normal:    n,
				TexCoord:  mgl32.Vec2{float32(x) / float32(width), float32(z) / float32(depth)},
				Tangent:   t,
				Bitangent: b,
			})
		}
	}

	for z := 0; z < depth-1; z++ {
		for x := 0; x < width-1; x++ {
			topLeft := uint32(z*width + x)
			topRight := topLeft + 1
			bottomLeft := uint32((z+1)*width + x)
			bottomRight := bottomLeft + 1

			mesh.Indices = append(mesh.Indices,
				topLeft, bottomLeft, topRight,
				topRight, bottomLeft, bottomRight,
			)
		}
	}

	return mesh
}

// basis returns the unit normal, tangent (+X) and bitangent (+Z) at (x, z).
func basis(hf *Heightfield, x, z int) (normal, tangent, bitangent mgl32.Vec3) {
	hL := hf.AtClamped(x-1, z)
	hR := hf.AtClamped(x+1, z)
	hD := hf.AtClamped(x, z-1)
	hU := hf.AtClamped(x, z+1)

	normal = mgl32.Vec3{hL - hR, gridSpacing2, hD - hU}.Normalize()
	tangent = mgl32.Vec3{gridSpacing2, hR - hL, 0}.Normalize()
	bitangent = mgl32.Vec3{0, hU - hD, gridSpacing2}.Normalize()
	return normal, tangent, bitangent
}
