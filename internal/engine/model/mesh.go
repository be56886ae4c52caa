// Package model holds indexed triangle meshes, the models that group them and
// a glTF loader.
package model

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/material"
)

// Attribute locations of the mesh vertex layout. Locations 3 and up are free
// for per-instance data.
const (
	LocPosition = 0
	LocNormal   = 1
	LocTexCoord = 2
)

// Vertex is the interleaved mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// VertexSize is the stride of Vertex in bytes.
const VertexSize = int32(unsafe.Sizeof(Vertex{}))

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// Extend grows b to contain p. An empty Bounds (Min > Max) takes p as is.
func (b Bounds) Extend(p mgl32.Vec3) Bounds {
	if b.Min.X() > b.Max.X() {
		return Bounds{Min: p, Max: p}
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the box containing both a and b.
func (b Bounds) Union(o Bounds) Bounds {
	if o.Min.X() > o.Max.X() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

func emptyBounds() Bounds {
	return Bounds{Min: mgl32.Vec3{1, 1, 1}, Max: mgl32.Vec3{-1, -1, -1}}
}

// MeshData is CPU-side geometry of one mesh, with the name of its material.
type MeshData struct {
	Name     string
	Material string
	Vertices []Vertex
	Indices  []uint32
}

// Bounds computes the bounding box of the vertices.
func (d *MeshData) Bounds() Bounds {
	b := emptyBounds()
	for _, v := range d.Vertices {
		b = b.Extend(v.Position)
	}
	return b
}

// Mesh owns the GPU buffers of one piece of geometry drawn with one material.
type Mesh struct {
	dev gpu.Device

	vao *gpu.VertexArray
	vbo *gpu.VertexBuffer
	ebo *gpu.IndexBuffer

	Name       string
	Material   *material.Material
	bounds     Bounds
	indexCount int32
}

// NewMesh uploads data into static buffers and configures attributes 0-2 at
// binding 0.
func NewMesh(dev gpu.Device, data *MeshData, mat *material.Material) (*Mesh, error) {
	m := &Mesh{
		dev:      dev,
		Name:     data.Name,
		Material: mat,
		bounds:   data.Bounds(),
		vao:      gpu.NewVertexArray(dev),
		vbo:      gpu.NewVertexBuffer(dev, gpu.StorageStatic),
		ebo:      gpu.NewIndexBuffer(dev),
	}
	if err := m.upload(data); err != nil {
		m.Release()
		return nil, fmt.Errorf("upload mesh %q: %w", data.Name, err)
	}
	return m, nil
}

func (m *Mesh) upload(data *MeshData) error {
	for _, gen := range []func() error{m.vao.Generate, m.vbo.Generate, m.ebo.Generate} {
		if err := gen(); err != nil {
			return err
		}
	}
	if len(data.Indices) == 0 {
		return nil
	}
	if err := m.vbo.SetData(gpu.Bytes(data.Vertices)); err != nil {
		return err
	}
	if err := m.ebo.SetIndices(data.Indices); err != nil {
		return err
	}
	if err := m.vao.BindIndexBuffer(m.ebo); err != nil {
		return err
	}
	if err := m.vao.BindVertexBuffer(m.vbo, 0, VertexSize); err != nil {
		return err
	}

	var v Vertex
	if err := m.vao.SetAttribFormat(LocPosition, 3, gpu.Float, false, uint32(unsafe.Offsetof(v.Position)), 0); err != nil {
		return err
	}
	if err := m.vao.SetAttribFormat(LocNormal, 3, gpu.Float, false, uint32(unsafe.Offsetof(v.Normal)), 0); err != nil {
		return err
	}
	if err := m.vao.SetAttribFormat(LocTexCoord, 2, gpu.Float, false, uint32(unsafe.Offsetof(v.TexCoord)), 0); err != nil {
		return err
	}
	m.indexCount = int32(len(data.Indices))
	return nil
}

// VertexArray exposes the mesh vertex array so instance attributes can be
// attached to it.
func (m *Mesh) VertexArray() *gpu.VertexArray { return m.vao }

// IndexCount returns the number of indices per draw.
func (m *Mesh) IndexCount() int32 { return m.indexCount }

// Bounds returns the model-space bounding box.
func (m *Mesh) Bounds() Bounds { return m.bounds }

// Render binds the material and issues one indexed draw.
func (m *Mesh) Render(shader gpu.Shader) {
	if m.indexCount == 0 {
		return
	}
	m.Material.Bind(shader)
	if err := m.vao.Bind(); err != nil {
		return
	}
	m.dev.DrawIndexed(gpu.Triangles, m.indexCount)
}

// RenderInstanced is Render with an instance count. Instance attributes must
// already be wired to the vertex array.
func (m *Mesh) RenderInstanced(shader gpu.Shader, instances int32) {
	if m.indexCount == 0 || instances <= 0 {
		return
	}
	m.Material.Bind(shader)
	if err := m.vao.Bind(); err != nil {
		return
	}
	m.dev.DrawIndexedInstanced(gpu.Triangles, m.indexCount, instances)
}

// Release frees the buffers. The material textures are not owned.
func (m *Mesh) Release() {
	m.vao.Release()
	m.vbo.Release()
	m.ebo.Release()
	m.indexCount = 0
}
