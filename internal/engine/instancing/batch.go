// Package instancing draws many copies of one model with a per-instance
// transform stream.
package instancing

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/model"
)

// Instance attribute layout: one mat4 per instance at binding 1, split into
// four vec4 columns at locations 3-6.
const (
	InstanceBinding = 1
	FirstLocation   = 3
	TransformSize   = int32(16 * 4)
	columnSize      = 4 * 4
)

var (
	ErrFinalized    = errors.New("instancing: batch already finalized")
	ErrNotFinalized = errors.New("instancing: batch not finalized")
)

// Batch accumulates instance transforms for a shared model, uploads them
// once and draws every instance of every mesh in one call per mesh.
type Batch struct {
	dev   gpu.Device
	model *model.Model

	transforms []mgl32.Mat4
	buffer     *gpu.VertexBuffer
	finalized  bool
}

// New creates an empty batch. The model is shared and never released by
// the batch.
func New(dev gpu.Device, m *model.Model) *Batch {
	return &Batch{dev: dev, model: m}
}

// Transform builds translate * rotateY * scale.
func Transform(position, scale mgl32.Vec3, rotationYDegrees float32) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotationYDegrees))).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// AddInstance appends one transform. Rotation is around Y only.
func (b *Batch) AddInstance(position, scale mgl32.Vec3, rotationYDegrees float32) error {
	if b.finalized {
		return ErrFinalized
	}
	b.transforms = append(b.transforms, Transform(position, scale, rotationYDegrees))
	return nil
}

// Finalize uploads the transforms and attaches the instance stream to every
// mesh of the model. It may be called once. A batch with no instances is
// finalized without touching the GPU.
func (b *Batch) Finalize() error {
	if b.finalized {
		return ErrFinalized
	}
	b.finalized = true
	if len(b.transforms) == 0 {
		return nil
	}

	b.buffer = gpu.NewVertexBuffer(b.dev, gpu.StorageDynamic)
	if err := b.buffer.Generate(); err != nil {
		return err
	}
	if err := b.buffer.SetData(gpu.Bytes(b.transforms)); err != nil {
		return fmt.Errorf("upload instances: %w", err)
	}

	for _, mesh := range b.model.Meshes {
		if err := configure(mesh.VertexArray(), b.buffer); err != nil {
			return fmt.Errorf("configure mesh %q: %w", mesh.Name, err)
		}
	}
	return nil
}

func configure(vao *gpu.VertexArray, buf *gpu.VertexBuffer) error {
	if err := vao.BindVertexBuffer(buf, InstanceBinding, TransformSize); err != nil {
		return err
	}
	if err := vao.SetBindingDivisor(InstanceBinding, 1); err != nil {
		return err
	}
	for i := uint32(0); i < 4; i++ {
		err := vao.SetAttribFormat(FirstLocation+i, 4, gpu.Float, false, i*columnSize, InstanceBinding)
		if err != nil {
			return err
		}
	}
	return nil
}

// Render draws every instance of every mesh. The model may be shared with
// other batches, so the instance stream is rebound before drawing.
func (b *Batch) Render(shader gpu.Shader) error {
	if !b.finalized {
		return ErrNotFinalized
	}
	if len(b.transforms) == 0 || b.buffer == nil {
		return nil
	}
	n := int32(len(b.transforms))
	for _, mesh := range b.model.Meshes {
		if err := mesh.VertexArray().BindVertexBuffer(b.buffer, InstanceBinding, TransformSize); err != nil {
			return err
		}
		mesh.RenderInstanced(shader, n)
	}
	return nil
}

// InstanceCount returns the number of instances added.
func (b *Batch) InstanceCount() int { return len(b.transforms) }

// Model returns the shared model.
func (b *Batch) Model() *model.Model { return b.model }

// Transforms returns the instance transforms in placement order.
func (b *Batch) Transforms() []mgl32.Mat4 { return b.transforms }

// Finalized reports whether Finalize has been called.
func (b *Batch) Finalized() bool { return b.finalized }

// Release frees the instance buffer.
func (b *Batch) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}
