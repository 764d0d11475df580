package fs

import (
	"io"
	"os"
)

// File represents an open file.
type File interface {
	io.ReadCloser
	Stat() (os.FileInfo, error)
	// Fd returns the OS descriptor, used for memory mapping.
	Fd() uintptr
}

// FileSystem abstracts the file system operations the arenas perform.
type FileSystem interface {
	Open(name string) (File, error)
	Readlink(name string) (string, error)
	Lstat(name string) (os.FileInfo, error)
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) Open(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		// Avoid returning a typed nil inside the interface.
		return nil, err
	}
	return f, nil
}

func (LocalFS) Readlink(name string) (string, error) { return os.Readlink(name) }

func (LocalFS) Lstat(name string) (os.FileInfo, error) { return os.Lstat(name) }

// Default is the default local file system.
var Default FileSystem = LocalFS{}
