package camera

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/gpu"
)

// BindingPoint is the uniform block binding of the Camera block in every
// shader.
const BindingPoint = 0

// Data mirrors the std140 Camera block: view, projection, position.
type Data struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Position   mgl32.Vec4
}

// DataSize is the byte size of the Camera block.
const DataSize = int(unsafe.Sizeof(Data{}))

// UBO owns the camera uniform buffer.
type UBO struct {
	buf *gpu.UniformBuffer
}

// NewUBO allocates the buffer and binds it to BindingPoint.
func NewUBO(dev gpu.Device) (*UBO, error) {
	buf, err := gpu.NewUniformBuffer(dev, BindingPoint, DataSize)
	if err != nil {
		return nil, err
	}
	return &UBO{buf: buf}, nil
}

// Upload writes the matrices and eye position for this frame.
func (u *UBO) Upload(view, projection mgl32.Mat4, eye mgl32.Vec3) error {
	d := []Data{{View: view, Projection: projection, Position: eye.Vec4(1)}}
	return u.buf.Update(0, gpu.Bytes(d))
}

// ID returns the buffer id.
func (u *UBO) ID() uint32 { return u.buf.ID() }

// Release frees the buffer.
func (u *UBO) Release() { u.buf.Release() }
