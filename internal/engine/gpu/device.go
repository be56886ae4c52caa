// Package gpu wraps GPU objects (vertex arrays, buffers, textures) in
// move-only handles and defines the driver interface they are issued against.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Storage selects the upload policy of a buffer.
type Storage int

const (
	// StorageStatic buffers are written exactly once and never modified.
	StorageStatic Storage = iota
	// StorageDynamic buffers allow partial updates after the initial upload.
	StorageDynamic
)

func (s Storage) String() string {
	if s == StorageDynamic {
		return "dynamic"
	}
	return "static"
}

// AttribType is the numeric type of a vertex attribute component.
type AttribType int

const (
	Float AttribType = iota
	UnsignedByte
	Int
)

// Size returns the byte size of one component.
func (t AttribType) Size() int {
	if t == UnsignedByte {
		return 1
	}
	return 4
}

// DepthFunc selects the depth comparison.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	// DepthLessEqual lets geometry written at the far plane (the sky) pass.
	DepthLessEqual
)

// Primitive is the primitive topology of a draw call.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

// Attrib describes one vertex attribute and the binding slot it reads from.
type Attrib struct {
	Location   uint32
	Size       int32 // component count
	Type       AttribType
	Normalized bool
	Offset     uint32 // byte offset inside one element of the binding
	Binding    uint32
}

// Wrap is the texture coordinate wrapping mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
)

// TextureOptions configures how a 2D texture image is stored and sampled.
type TextureOptions struct {
	SRGB    bool // color data, sampled with gamma correction
	Mipmaps bool
	Wrap    Wrap
}

// Device is the driver surface every GPU handle talks to.
// All methods must be called from the thread that owns the GL context.
type Device interface {
	CreateVertexArray() uint32
	DeleteVertexArray(id uint32)
	CreateBuffer() uint32
	DeleteBuffer(id uint32)
	BufferStorage(id uint32, data []byte, storage Storage)
	BufferSubData(id uint32, offset int, data []byte)

	VertexArrayVertexBuffer(vao, binding, buffer uint32, stride int32)
	VertexArrayElementBuffer(vao, buffer uint32)
	VertexArrayAttrib(vao uint32, attr Attrib)
	VertexArrayBindingDivisor(vao, binding, divisor uint32)
	BindVertexArray(vao uint32)

	CreateTexture() uint32
	DeleteTexture(id uint32)
	TextureImage2D(id uint32, width, height int32, pixels []byte, opts TextureOptions)
	BindTextureUnit(unit, id uint32)

	BindUniformBuffer(bindingPoint, id uint32)

	DrawArrays(mode Primitive, first, count int32)
	DrawIndexed(mode Primitive, count int32)
	DrawIndexedInstanced(mode Primitive, count, instances int32)

	// Frame state
	Viewport(width, height int32)
	Clear(r, g, b float32)
	SetDepthFunc(f DepthFunc)
	SetWireframe(on bool)

	// ReadPixels returns the back buffer as RGBA rows, bottom row first.
	ReadPixels(width, height int32) []byte
}

// Shader is the uniform surface renderers use to feed a linked program.
type Shader interface {
	Use()
	SetTextureUnit(name string, unit uint32)
	SetBool(name string, v bool)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec2(name string, v mgl32.Vec2)
	SetVec3(name string, v mgl32.Vec3)
	SetMat3(name string, m mgl32.Mat3)
	SetMat4(name string, m mgl32.Mat4)
}
