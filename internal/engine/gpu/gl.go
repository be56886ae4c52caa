package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/logger"
)

// GLDevice implements Device on OpenGL 4.5 core using direct state access.
type GLDevice struct{}

// NewGLDevice loads the GL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created.
func NewGLDevice(debug bool) (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	if debug {
		gl.Enable(gl.DEBUG_OUTPUT)
		gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
		gl.DebugMessageCallback(func(source, gltype, id, severity uint32, _ int32, message string, _ unsafe.Pointer) {
			if severity == gl.DEBUG_SEVERITY_NOTIFICATION {
				return
			}
			logger.Warn("gl debug",
				zap.Uint32("id", id),
				zap.Uint32("severity", severity),
				zap.String("message", message),
			)
		}, nil)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	return &GLDevice{}, nil
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func (GLDevice) CreateVertexArray() uint32 {
	var id uint32
	gl.CreateVertexArrays(1, &id)
	return id
}

func (GLDevice) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (GLDevice) CreateBuffer() uint32 {
	var id uint32
	gl.CreateBuffers(1, &id)
	return id
}

func (GLDevice) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (GLDevice) BufferStorage(id uint32, data []byte, storage Storage) {
	var flags uint32
	if storage == StorageDynamic {
		flags = gl.DYNAMIC_STORAGE_BIT
	}
	gl.NamedBufferStorage(id, len(data), ptr(data), flags)
}

func (GLDevice) BufferSubData(id uint32, offset int, data []byte) {
	gl.NamedBufferSubData(id, offset, len(data), ptr(data))
}

func (GLDevice) VertexArrayVertexBuffer(vao, binding, buffer uint32, stride int32) {
	gl.VertexArrayVertexBuffer(vao, binding, buffer, 0, stride)
}

func (GLDevice) VertexArrayElementBuffer(vao, buffer uint32) {
	gl.VertexArrayElementBuffer(vao, buffer)
}

func (GLDevice) VertexArrayAttrib(vao uint32, attr Attrib) {
	gl.EnableVertexArrayAttrib(vao, attr.Location)
	if attr.Type == Int && !attr.Normalized {
		gl.VertexArrayAttribIFormat(vao, attr.Location, attr.Size, glType(attr.Type), attr.Offset)
	} else {
		gl.VertexArrayAttribFormat(vao, attr.Location, attr.Size, glType(attr.Type), attr.Normalized, attr.Offset)
	}
	gl.VertexArrayAttribBinding(vao, attr.Location, attr.Binding)
}

func (GLDevice) VertexArrayBindingDivisor(vao, binding, divisor uint32) {
	gl.VertexArrayBindingDivisor(vao, binding, divisor)
}

func (GLDevice) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (GLDevice) CreateTexture() uint32 {
	var id uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &id)
	return id
}

func (GLDevice) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (GLDevice) TextureImage2D(id uint32, width, height int32, pixels []byte, opts TextureOptions) {
	levels := int32(1)
	if opts.Mipmaps {
		for s := max(width, height); s > 1; s >>= 1 {
			levels++
		}
	}

	internal := uint32(gl.RGBA8)
	if opts.SRGB {
		internal = gl.SRGB8_ALPHA8
	}
	gl.TextureStorage2D(id, levels, internal, width, height)
	gl.TextureSubImage2D(id, 0, 0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, ptr(pixels))

	wrap := int32(gl.REPEAT)
	if opts.Wrap == WrapClampToEdge {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TextureParameteri(id, gl.TEXTURE_WRAP_S, wrap)
	gl.TextureParameteri(id, gl.TEXTURE_WRAP_T, wrap)
	gl.TextureParameteri(id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if opts.Mipmaps {
		gl.TextureParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateTextureMipmap(id)
	} else {
		gl.TextureParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
}

func (GLDevice) BindTextureUnit(unit, id uint32) {
	gl.BindTextureUnit(unit, id)
}

func (GLDevice) BindUniformBuffer(bindingPoint, id uint32) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, bindingPoint, id)
}

func (GLDevice) DrawArrays(mode Primitive, first, count int32) {
	gl.DrawArrays(glMode(mode), first, count)
}

func (GLDevice) DrawIndexed(mode Primitive, count int32) {
	gl.DrawElements(glMode(mode), count, gl.UNSIGNED_INT, nil)
}

func (GLDevice) DrawIndexedInstanced(mode Primitive, count, instances int32) {
	gl.DrawElementsInstanced(glMode(mode), count, gl.UNSIGNED_INT, nil, instances)
}

func (GLDevice) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (GLDevice) Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (GLDevice) SetDepthFunc(f DepthFunc) {
	if f == DepthLessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

func (GLDevice) SetWireframe(on bool) {
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (GLDevice) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, ptr(pixels))
	return pixels
}

func glType(t AttribType) uint32 {
	switch t {
	case UnsignedByte:
		return gl.UNSIGNED_BYTE
	case Int:
		return gl.INT
	default:
		return gl.FLOAT
	}
}

func glMode(p Primitive) uint32 {
	if p == Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}
