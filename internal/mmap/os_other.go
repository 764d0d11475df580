//go:build !unix && !windows

package mmap

func osMap(Descriptor, int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrUnsupported
}
