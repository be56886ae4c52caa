package gpu

import (
	"errors"
	"unsafe"
)

var (
	// ErrAlreadyGenerated is returned when Generate is called on a handle that
	// already owns a GPU object.
	ErrAlreadyGenerated = errors.New("gpu: handle already generated")
	// ErrNotGenerated is returned by operations on a handle with no GPU object.
	ErrNotGenerated = errors.New("gpu: handle not generated")
	// ErrImmutable is returned when a static buffer is written a second time.
	ErrImmutable = errors.New("gpu: buffer storage is immutable")
	// ErrOutOfRange is returned when an update falls outside the allocated storage.
	ErrOutOfRange = errors.New("gpu: update out of range")
)

// noCopy marks a handle as non-copyable; go vet's copylocks check reports
// values of types embedding it that are copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Bytes reinterprets a slice of fixed-size values as raw bytes for upload.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*size)
}
