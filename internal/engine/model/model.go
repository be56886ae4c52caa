package model

import (
	"fmt"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/material"
)

// Model is a set of meshes loaded from one source. Several scene objects and
// instanced batches may share a model; only its loader releases it.
type Model struct {
	Path   string
	Meshes []*Mesh
	bounds Bounds
}

// New groups meshes into a model.
func New(path string, meshes []*Mesh) *Model {
	b := emptyBounds()
	for _, m := range meshes {
		b = b.Union(m.Bounds())
	}
	return &Model{Path: path, Meshes: meshes, bounds: b}
}

// Upload builds a model from CPU mesh data. materials maps material names
// to materials; a mesh whose material is unknown renders untextured.
func Upload(dev gpu.Device, path string, data []MeshData, materials map[string]*material.Material) (*Model, error) {
	meshes := make([]*Mesh, 0, len(data))
	for i := range data {
		mesh, err := NewMesh(dev, &data[i], materials[data[i].Material])
		if err != nil {
			for _, m := range meshes {
				m.Release()
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		meshes = append(meshes, mesh)
	}
	return New(path, meshes), nil
}

// Render draws every mesh.
func (m *Model) Render(shader gpu.Shader) {
	for _, mesh := range m.Meshes {
		mesh.Render(shader)
	}
}

// Bounds returns the model-space bounding box of all meshes.
func (m *Model) Bounds() Bounds { return m.bounds }

// IndexCount sums the index counts of all meshes.
func (m *Model) IndexCount() int32 {
	var n int32
	for _, mesh := range m.Meshes {
		n += mesh.IndexCount()
	}
	return n
}

// Release frees every mesh.
func (m *Model) Release() {
	for _, mesh := range m.Meshes {
		mesh.Release()
	}
	m.Meshes = nil
}
