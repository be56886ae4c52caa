package gpu

// VertexArray owns one vertex array object and records how its binding
// slots and attributes are wired.
type VertexArray struct {
	noCopy noCopy
	dev    Device
	id     uint32
}

// NewVertexArray returns an empty handle; call Generate before use.
func NewVertexArray(dev Device) *VertexArray {
	return &VertexArray{dev: dev}
}

// Generate allocates the vertex array object.
func (va *VertexArray) Generate() error {
	if va.id != 0 {
		return ErrAlreadyGenerated
	}
	va.id = va.dev.CreateVertexArray()
	return nil
}

// ID returns the GPU object id, 0 when the handle holds nothing.
func (va *VertexArray) ID() uint32 { return va.id }

// Bind makes the vertex array current for subsequent draws.
func (va *VertexArray) Bind() error {
	if va.id == 0 {
		return ErrNotGenerated
	}
	va.dev.BindVertexArray(va.id)
	return nil
}

// BindVertexBuffer attaches vb to a binding slot with the given element stride.
func (va *VertexArray) BindVertexBuffer(vb *VertexBuffer, binding uint32, stride int32) error {
	if va.id == 0 || vb.ID() == 0 {
		return ErrNotGenerated
	}
	va.dev.VertexArrayVertexBuffer(va.id, binding, vb.ID(), stride)
	return nil
}

// BindIndexBuffer attaches ib as the element buffer.
func (va *VertexArray) BindIndexBuffer(ib *IndexBuffer) error {
	if va.id == 0 || ib.ID() == 0 {
		return ErrNotGenerated
	}
	va.dev.VertexArrayElementBuffer(va.id, ib.ID())
	return nil
}

// SetAttribFormat enables an attribute location, describes its shape and
// connects it to a binding slot.
func (va *VertexArray) SetAttribFormat(location uint32, size int32, typ AttribType, normalized bool, offset, binding uint32) error {
	return va.SetAttrib(Attrib{
		Location:   location,
		Size:       size,
		Type:       typ,
		Normalized: normalized,
		Offset:     offset,
		Binding:    binding,
	})
}

// SetAttrib is SetAttribFormat taking a prepared descriptor.
func (va *VertexArray) SetAttrib(attr Attrib) error {
	if va.id == 0 {
		return ErrNotGenerated
	}
	va.dev.VertexArrayAttrib(va.id, attr)
	return nil
}

// SetBindingDivisor makes a binding slot advance once per divisor instances
// instead of once per vertex. Divisor 0 restores per-vertex stepping.
func (va *VertexArray) SetBindingDivisor(binding, divisor uint32) error {
	if va.id == 0 {
		return ErrNotGenerated
	}
	va.dev.VertexArrayBindingDivisor(va.id, binding, divisor)
	return nil
}

// Release deletes the vertex array if one is held.
func (va *VertexArray) Release() {
	if va.id != 0 {
		va.dev.DeleteVertexArray(va.id)
	}
	va.id = 0
}

// Move transfers ownership to a new handle and leaves va released.
func (va *VertexArray) Move() *VertexArray {
	moved := &VertexArray{dev: va.dev, id: va.id}
	va.id = 0
	return moved
}

// Texture2D owns one two-dimensional texture object.
type Texture2D struct {
	noCopy        noCopy
	dev           Device
	id            uint32
	width, height int32
}

// NewTexture2D returns an empty handle; call Generate before use.
func NewTexture2D(dev Device) *Texture2D {
	return &Texture2D{dev: dev}
}

// Generate allocates the texture object.
func (t *Texture2D) Generate() error {
	if t.id != 0 {
		return ErrAlreadyGenerated
	}
	t.id = t.dev.CreateTexture()
	return nil
}

// SetImage uploads tightly packed RGBA8 pixels. The storage is immutable.
func (t *Texture2D) SetImage(width, height int32, rgba []byte, opts TextureOptions) error {
	if t.id == 0 {
		return ErrNotGenerated
	}
	if t.width != 0 {
		return ErrImmutable
	}
	t.dev.TextureImage2D(t.id, width, height, rgba, opts)
	t.width, t.height = width, height
	return nil
}

// BindToUnit binds the texture to a texture unit. A released texture binds
// nothing and reports false.
func (t *Texture2D) BindToUnit(unit uint32) bool {
	if t == nil || t.id == 0 {
		return false
	}
	t.dev.BindTextureUnit(unit, t.id)
	return true
}

// ID returns the GPU object id, 0 when the handle holds nothing.
func (t *Texture2D) ID() uint32 { return t.id }

// Size returns the uploaded dimensions.
func (t *Texture2D) Size() (int32, int32) { return t.width, t.height }

// Release deletes the texture if one is held.
func (t *Texture2D) Release() {
	if t.id != 0 {
		t.dev.DeleteTexture(t.id)
	}
	t.id = 0
	t.width, t.height = 0, 0
}

// Move transfers ownership to a new handle and leaves t released.
func (t *Texture2D) Move() *Texture2D {
	moved := &Texture2D{dev: t.dev, id: t.id, width: t.width, height: t.height}
	t.id = 0
	t.width, t.height = 0, 0
	return moved
}
