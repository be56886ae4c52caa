package terrain

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/material"
)

// Attribute locations of the terrain vertex layout.
const (
	LocPosition  = 0
	LocNormal    = 1
	LocTexCoord  = 2
	LocTangent   = 3
	LocBitangent = 4
)

// Band is one material layer of the terrain shader (grass, rock, snow...).
// The shader blends bands by elevation and slope.
type Band struct {
	Name     string
	Material *material.Material
}

// Options configures a terrain instance.
type Options struct {
	Origin mgl32.Vec3 // world position of grid cell (0, 0)
	Bands  []Band
}

// Terrain owns the GPU buffers of one heightfield mesh.
type Terrain struct {
	dev    gpu.Device
	hf     *Heightfield
	origin mgl32.Vec3
	bands  []Band

	vao *gpu.VertexArray
	vbo *gpu.VertexBuffer
	ebo *gpu.IndexBuffer

	vertexCount int
	indexCount  int32
	bounds      Bounds
}

// New builds the mesh for hf and uploads it.
func New(dev gpu.Device, hf *Heightfield, opts Options) (*Terrain, error) {
	t := &Terrain{
		dev:    dev,
		origin: opts.Origin,
		bands:  opts.Bands,
	}
	if err := t.Rebuild(hf); err != nil {
		return nil, err
	}
	return t, nil
}

// Rebuild releases the current buffers and uploads a mesh for hf.
// There is no partial update path.
func (t *Terrain) Rebuild(hf *Heightfield) error {
	t.releaseBuffers()
	t.hf = hf

	mesh := BuildMesh(hf)
	t.vertexCount = len(mesh.Vertices)
	t.bounds = mesh.Bounds
	if len(mesh.Indices) == 0 {
		return nil
	}

	if err := t.upload(mesh); err != nil {
		t.releaseBuffers()
		return fmt.Errorf("upload terrain mesh: %w", err)
	}
	t.indexCount = int32(len(mesh.Indices))
	return nil
}

func (t *Terrain) upload(mesh *Mesh) error {
	t.vao = gpu.NewVertexArray(t.dev)
	t.vbo = gpu.NewVertexBuffer(t.dev, gpu.StorageStatic)
	t.ebo = gpu.NewIndexBuffer(t.dev)

	for _, gen := range []func() error{t.vao.Generate, t.vbo.Generate, t.ebo.Generate} {
		if err := gen(); err != nil {
			return err
		}
	}
	if err := t.vbo.SetData(gpu.Bytes(mesh.Vertices)); err != nil {
		return err
	}
	if err := t.ebo.SetIndices(mesh.Indices); err != nil {
		return err
	}
	if err := t.vao.BindIndexBuffer(t.ebo); err != nil {
		return err
	}
	if err := t.vao.BindVertexBuffer(t.vbo, 0, VertexSize); err != nil {
		return err
	}

	var v Vertex
	attribs := []gpu.Attrib{
		{Location: LocPosition, Size: 3, Offset: uint32(unsafe.Offsetof(v.Position))},
		{Location: LocNormal, Size: 3, Offset: uint32(unsafe.Offsetof(v.Normal))},
		{Location: LocTexCoord, Size: 2, Offset: uint32(unsafe.Offsetof(v.TexCoord))},
		{Location: LocTangent, Size: 3, Offset: uint32(unsafe.Offsetof(v.Tangent))},
		{Location: LocBitangent, Size: 3, Offset: uint32(unsafe.Offsetof(v.Bitangent))},
	}
	for _, a := range attribs {
		a.Type = gpu.Float
		if err := t.vao.SetAttrib(a); err != nil {
			return err
		}
	}
	return nil
}

// Render binds the band textures and issues one indexed draw. The caller
// has already made shader current and set its matrices.
func (t *Terrain) Render(shader gpu.Shader) {
	if t.vao == nil || t.indexCount == 0 {
		return
	}

	for i, band := range t.bands {
		base := uint32(i) * uint32(material.RoleCount)
		band.Material.BindTextures(shader, base, func(r material.Role) string {
			return UniformName(band.Name, r)
		})
	}
	shader.SetInt("bandCount", int32(len(t.bands)))

	if err := t.vao.Bind(); err != nil {
		return
	}
	t.dev.DrawIndexed(gpu.Triangles, t.indexCount)
}

// UniformName returns the sampler uniform for a band texture, for example
// "rockNormal" or "snowTexture".
func UniformName(band string, role material.Role) string {
	switch role {
	case material.Diffuse:
		return band + "Texture"
	case material.Normal:
		return band + "Normal"
	case material.Roughness:
		return band + "Roughness"
	default:
		return band + "AO"
	}
}

// ModelMatrix places the grid in the world.
func (t *Terrain) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.origin.X(), t.origin.Y(), t.origin.Z())
}

// Origin returns the world position of grid cell (0, 0).
func (t *Terrain) Origin() mgl32.Vec3 { return t.origin }

// Heightfield returns the heightfield the current mesh was built from.
func (t *Terrain) Heightfield() *Heightfield { return t.hf }

// VertexCount returns the number of mesh vertices.
func (t *Terrain) VertexCount() int { return t.vertexCount }

// IndexCount returns the number of indices drawn per frame.
func (t *Terrain) IndexCount() int32 { return t.indexCount }

// Bounds returns the grid-local bounding box.
func (t *Terrain) Bounds() Bounds { return t.bounds }

// WorldBounds returns the bounding box in world space.
func (t *Terrain) WorldBounds() Bounds {
	return Bounds{Min: t.bounds.Min.Add(t.origin), Max: t.bounds.Max.Add(t.origin)}
}

func (t *Terrain) releaseBuffers() {
	if t.vao != nil {
		t.vao.Release()
		t.vao = nil
	}
	if t.vbo != nil {
		t.vbo.Release()
		t.vbo = nil
	}
	if t.ebo != nil {
		t.ebo.Release()
		t.ebo = nil
	}
	t.indexCount = 0
}

// Release frees the GPU buffers. Band textures belong to the asset cache.
func (t *Terrain) Release() {
	t.releaseBuffers()
}
