package mmap

import "errors"

var (
	// ErrEmpty is returned when asked to map zero bytes.
	ErrEmpty = errors.New("mmap: cannot map an empty file")
	// ErrInvalidSize is returned when the file size is invalid (e.g. negative or too large).
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrUnsupported is returned on platforms without memory mapping support.
	ErrUnsupported = errors.New("mmap: not supported on this platform")
)

// Descriptor is anything backed by an OS file descriptor or handle.
// *os.File satisfies it.
type Descriptor interface {
	Fd() uintptr
}
