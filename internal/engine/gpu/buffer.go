package gpu

import "fmt"

// buffer is the state shared by vertex, index and uniform buffers.
type buffer struct {
	dev     Device
	id      uint32
	storage Storage
	size    int
	written bool
}

func (b *buffer) generate() error {
	if b.id != 0 {
		return ErrAlreadyGenerated
	}
	b.id = b.dev.CreateBuffer()
	return nil
}

func (b *buffer) setData(data []byte) error {
	if b.id == 0 {
		return ErrNotGenerated
	}
	if b.written {
		if b.storage == StorageStatic {
			return ErrImmutable
		}
		// Immutable storage cannot be reallocated; dynamic buffers are
		// resized by recreating the object.
		b.dev.DeleteBuffer(b.id)
		b.id = b.dev.CreateBuffer()
	}
	b.dev.BufferStorage(b.id, data, b.storage)
	b.size = len(data)
	b.written = true
	return nil
}

func (b *buffer) update(offset int, data []byte) error {
	if b.id == 0 {
		return ErrNotGenerated
	}
	if b.storage == StorageStatic {
		return ErrImmutable
	}
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("%w: [%d, %d) of %d bytes", ErrOutOfRange, offset, offset+len(data), b.size)
	}
	b.dev.BufferSubData(b.id, offset, data)
	return nil
}

func (b *buffer) release() {
	if b.id != 0 {
		b.dev.DeleteBuffer(b.id)
	}
	b.id = 0
	b.size = 0
	b.written = false
}

// take returns the current state and leaves b empty but bound to the same
// device and storage policy.
func (b *buffer) take() buffer {
	moved := *b
	*b = buffer{dev: b.dev, storage: b.storage}
	return moved
}

// VertexBuffer owns one GPU buffer holding vertex or per-instance data.
type VertexBuffer struct {
	noCopy noCopy
	buffer
}

// NewVertexBuffer returns an empty handle; call Generate before use.
func NewVertexBuffer(dev Device, storage Storage) *VertexBuffer {
	return &VertexBuffer{buffer: buffer{dev: dev, storage: storage}}
}

// Generate allocates the underlying GPU buffer.
func (b *VertexBuffer) Generate() error { return b.generate() }

// SetData uploads data according to the buffer's storage policy.
func (b *VertexBuffer) SetData(data []byte) error { return b.setData(data) }

// Update overwrites part of a dynamic buffer.
func (b *VertexBuffer) Update(offset int, data []byte) error { return b.update(offset, data) }

// ID returns the GPU object id, 0 when the handle holds nothing.
func (b *VertexBuffer) ID() uint32 { return b.id }

// Size returns the uploaded size in bytes.
func (b *VertexBuffer) Size() int { return b.size }

// Storage returns the upload policy.
func (b *VertexBuffer) Storage() Storage { return b.storage }

// Release deletes the GPU buffer if one is held. Safe to call repeatedly.
func (b *VertexBuffer) Release() { b.release() }

// Move transfers ownership to a new handle and leaves b released.
func (b *VertexBuffer) Move() *VertexBuffer {
	return &VertexBuffer{buffer: b.take()}
}

// IndexBuffer owns one GPU buffer of uint32 triangle indices.
type IndexBuffer struct {
	noCopy noCopy
	buffer
	count int32
}

// NewIndexBuffer returns an empty static index buffer handle.
func NewIndexBuffer(dev Device) *IndexBuffer {
	return &IndexBuffer{buffer: buffer{dev: dev, storage: StorageStatic}}
}

// Generate allocates the underlying GPU buffer.
func (b *IndexBuffer) Generate() error { return b.generate() }

// SetIndices uploads the index data.
func (b *IndexBuffer) SetIndices(indices []uint32) error {
	if err := b.setData(Bytes(indices)); err != nil {
		return err
	}
	b.count = int32(len(indices))
	return nil
}

// ID returns the GPU object id, 0 when the handle holds nothing.
func (b *IndexBuffer) ID() uint32 { return b.id }

// Count returns the number of uploaded indices.
func (b *IndexBuffer) Count() int32 { return b.count }

// Release deletes the GPU buffer if one is held.
func (b *IndexBuffer) Release() {
	b.release()
	b.count = 0
}

// Move transfers ownership to a new handle and leaves b released.
func (b *IndexBuffer) Move() *IndexBuffer {
	moved := &IndexBuffer{buffer: b.take(), count: b.count}
	b.count = 0
	return moved
}

// UniformBuffer owns a dynamic GPU buffer bound to a fixed uniform block
// binding point.
type UniformBuffer struct {
	noCopy noCopy
	buffer
	binding uint32
}

// NewUniformBuffer allocates a zeroed uniform buffer of size bytes and binds
// it to bindingPoint.
func NewUniformBuffer(dev Device, bindingPoint uint32, size int) (*UniformBuffer, error) {
	ub := &UniformBuffer{buffer: buffer{dev: dev, storage: StorageDynamic}, binding: bindingPoint}
	if err := ub.generate(); err != nil {
		return nil, err
	}
	if err := ub.setData(make([]byte, size)); err != nil {
		return nil, err
	}
	dev.BindUniformBuffer(bindingPoint, ub.id)
	return ub, nil
}

// Update writes data at offset.
func (b *UniformBuffer) Update(offset int, data []byte) error { return b.update(offset, data) }

// ID returns the GPU object id.
func (b *UniformBuffer) ID() uint32 { return b.id }

// Binding returns the uniform block binding point.
func (b *UniformBuffer) Binding() uint32 { return b.binding }

// Release deletes the GPU buffer if one is held.
func (b *UniformBuffer) Release() { b.release() }
