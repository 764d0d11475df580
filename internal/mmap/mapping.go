package mmap

import (
	"sync/atomic"
)

// Region is a read-only, private mapping of a file starting at offset zero.
type Region struct {
	data     []byte
	released atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// Map maps the first size bytes of f. The mapping does not keep f open.
func Map(f Descriptor, size int64) (*Region, error) {
	if size == 0 {
		return nil, ErrEmpty
	}
	if size < 0 || int64(int(size)) != size {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	return &Region{
		data:  data,
		unmap: unmapFunc,
	}, nil
}

// Bytes returns the mapped bytes, or nil once the region was unmapped.
// The slice must never be written to.
func (r *Region) Bytes() []byte {
	if r.released.Load() {
		return nil
	}
	return r.data
}

// Len returns the size of the mapping in bytes. It does not change after Unmap.
func (r *Region) Len() int {
	return len(r.data)
}

// Unmap releases the mapping. Only the first call reaches the OS.
func (r *Region) Unmap() error {
	if r.released.Swap(true) {
		return nil
	}
	return r.unmap(r.data)
}
