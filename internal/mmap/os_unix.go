//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

func osMap(f Descriptor, size int) ([]byte, func([]byte) error, error) {
	// Private and read-only: pages are copy-on-write, and nothing writes.
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}

	return data, unix.Munmap, nil
}
