// Package gputest provides a recording gpu.Device and gpu.Shader for tests
// that exercise GPU resource wiring without a GL context.
package gputest

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scilla/internal/engine/gpu"
)

// Buffer is the recorded state of one buffer object.
type Buffer struct {
	Data    []byte
	Storage gpu.Storage
	Uploads int
}

// Binding is the recorded state of one vertex array binding slot.
type Binding struct {
	Buffer  uint32
	Stride  int32
	Divisor uint32
}

// VertexArray is the recorded state of one vertex array object.
type VertexArray struct {
	Element  uint32
	Bindings map[uint32]Binding
	Attribs  map[uint32]gpu.Attrib
}

// Texture is the recorded state of one texture object.
type Texture struct {
	Width, Height int32
	Options       gpu.TextureOptions
}

// Draw is one recorded draw call.
type Draw struct {
	Mode        gpu.Primitive
	VertexArray uint32
	Count       int32
	Instances   int32 // 0 for non-instanced draws
	Indexed     bool
	Depth       gpu.DepthFunc
}

// Device records every call issued against it. Ids start at 1 and are never
// reused, so a deleted id stays detectable.
type Device struct {
	nextID uint32

	VertexArrays  map[uint32]*VertexArray
	Buffers       map[uint32]*Buffer
	Textures      map[uint32]*Texture
	Deleted       map[uint32]bool
	TextureUnits  map[uint32]uint32
	UniformBlocks map[uint32]uint32
	Bound         uint32
	Draws         []Draw

	ViewportSize [2]int32
	Clears       int
	Depth        gpu.DepthFunc
	Wireframe    bool
	Frame        []byte // returned by ReadPixels when its size matches
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{
		VertexArrays:  make(map[uint32]*VertexArray),
		Buffers:       make(map[uint32]*Buffer),
		Textures:      make(map[uint32]*Texture),
		Deleted:       make(map[uint32]bool),
		TextureUnits:  make(map[uint32]uint32),
		UniformBlocks: make(map[uint32]uint32),
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// Live returns the number of objects created and not yet deleted.
func (d *Device) Live() int {
	return len(d.VertexArrays) + len(d.Buffers) + len(d.Textures)
}

// ResetDraws clears recorded draw calls and texture bindings.
func (d *Device) ResetDraws() {
	d.Draws = nil
	d.TextureUnits = make(map[uint32]uint32)
}

func (d *Device) CreateVertexArray() uint32 {
	id := d.id()
	d.VertexArrays[id] = &VertexArray{
		Bindings: make(map[uint32]Binding),
		Attribs:  make(map[uint32]gpu.Attrib),
	}
	return id
}

func (d *Device) DeleteVertexArray(id uint32) {
	delete(d.VertexArrays, id)
	d.Deleted[id] = true
}

func (d *Device) CreateBuffer() uint32 {
	id := d.id()
	d.Buffers[id] = &Buffer{}
	return id
}

func (d *Device) DeleteBuffer(id uint32) {
	delete(d.Buffers, id)
	d.Deleted[id] = true
}

func (d *Device) BufferStorage(id uint32, data []byte, storage gpu.Storage) {
	b := d.Buffers[id]
	if b == nil {
		return
	}
	b.Data = append([]byte(nil), data...)
	b.Storage = storage
	b.Uploads++
}

func (d *Device) BufferSubData(id uint32, offset int, data []byte) {
	if b := d.Buffers[id]; b != nil {
		copy(b.Data[offset:], data)
		b.Uploads++
	}
}

func (d *Device) VertexArrayVertexBuffer(vao, binding, buffer uint32, stride int32) {
	if va := d.VertexArrays[vao]; va != nil {
		b := va.Bindings[binding]
		b.Buffer, b.Stride = buffer, stride
		va.Bindings[binding] = b
	}
}

func (d *Device) VertexArrayElementBuffer(vao, buffer uint32) {
	if va := d.VertexArrays[vao]; va != nil {
		va.Element = buffer
	}
}

func (d *Device) VertexArrayAttrib(vao uint32, attr gpu.Attrib) {
	if va := d.VertexArrays[vao]; va != nil {
		va.Attribs[attr.Location] = attr
	}
}

func (d *Device) VertexArrayBindingDivisor(vao, binding, divisor uint32) {
	if va := d.VertexArrays[vao]; va != nil {
		b := va.Bindings[binding]
		b.Divisor = divisor
		va.Bindings[binding] = b
	}
}

func (d *Device) BindVertexArray(vao uint32) { d.Bound = vao }

func (d *Device) CreateTexture() uint32 {
	id := d.id()
	d.Textures[id] = &Texture{}
	return id
}

func (d *Device) DeleteTexture(id uint32) {
	delete(d.Textures, id)
	d.Deleted[id] = true
}

func (d *Device) TextureImage2D(id uint32, width, height int32, _ []byte, opts gpu.TextureOptions) {
	if t := d.Textures[id]; t != nil {
		t.Width, t.Height, t.Options = width, height, opts
	}
}

func (d *Device) BindTextureUnit(unit, id uint32) { d.TextureUnits[unit] = id }

func (d *Device) BindUniformBuffer(bindingPoint, id uint32) { d.UniformBlocks[bindingPoint] = id }

func (d *Device) DrawArrays(mode gpu.Primitive, _, count int32) {
	d.Draws = append(d.Draws, Draw{Mode: mode, VertexArray: d.Bound, Count: count, Depth: d.Depth})
}

func (d *Device) DrawIndexed(mode gpu.Primitive, count int32) {
	d.Draws = append(d.Draws, Draw{Mode: mode, VertexArray: d.Bound, Count: count, Indexed: true, Depth: d.Depth})
}

func (d *Device) DrawIndexedInstanced(mode gpu.Primitive, count, instances int32) {
	d.Draws = append(d.Draws, Draw{Mode: mode, VertexArray: d.Bound, Count: count, Instances: instances, Indexed: true, Depth: d.Depth})
}

func (d *Device) Viewport(width, height int32) { d.ViewportSize = [2]int32{width, height} }
func (d *Device) Clear(_, _, _ float32)        { d.Clears++ }
func (d *Device) SetDepthFunc(f gpu.DepthFunc) { d.Depth = f }
func (d *Device) SetWireframe(on bool)         { d.Wireframe = on }

func (d *Device) ReadPixels(width, height int32) []byte {
	n := int(width) * int(height) * 4
	if len(d.Frame) == n {
		return append([]byte(nil), d.Frame...)
	}
	return make([]byte, n)
}

// Shader records uniform writes by name.
type Shader struct {
	Uses     int
	Uniforms map[string]any
}

// NewShader returns an empty recording shader.
func NewShader() *Shader {
	return &Shader{Uniforms: make(map[string]any)}
}

func (s *Shader) Use()                                    { s.Uses++ }
func (s *Shader) SetTextureUnit(name string, unit uint32) { s.Uniforms[name] = unit }
func (s *Shader) SetBool(name string, v bool)             { s.Uniforms[name] = v }
func (s *Shader) SetInt(name string, v int32)             { s.Uniforms[name] = v }
func (s *Shader) SetFloat(name string, v float32)         { s.Uniforms[name] = v }
func (s *Shader) SetVec2(name string, v mgl32.Vec2)       { s.Uniforms[name] = v }
func (s *Shader) SetVec3(name string, v mgl32.Vec3)       { s.Uniforms[name] = v }
func (s *Shader) SetMat3(name string, m mgl32.Mat3)       { s.Uniforms[name] = m }
func (s *Shader) SetMat4(name string, m mgl32.Mat4)       { s.Uniforms[name] = m }

var (
	_ gpu.Device = (*Device)(nil)
	_ gpu.Shader = (*Shader)(nil)
)
