package quiltarena

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/quiltarena/internal/compress"
	"github.com/hupe1980/quiltarena/resource"
)

var (
	// ErrClosed is returned by loads on a closed arena.
	ErrClosed = errors.New("arena is closed")

	// ErrBudgetExceeded is returned when a load would exceed the memory
	// limit of the configured resource.Controller.
	ErrBudgetExceeded = resource.ErrMemoryLimitExceeded

	// ErrUnsupportedCompression is returned by LoadPatch for compressed
	// patches whose format cannot be decoded (e.g. .xz).
	ErrUnsupportedCompression = compress.ErrUnsupported
)

// ErrorKind classifies load failures.
type ErrorKind uint8

const (
	// KindOpen means the file could not be opened or its metadata queried.
	KindOpen ErrorKind = iota + 1
	// KindMap means the OS refused the memory mapping.
	KindMap
	// KindRead means reading the content failed.
	KindRead
	// KindReadlink means the path is not a symbolic link or its target is unreadable.
	KindReadlink
	// KindBudget means the memory budget was exhausted.
	KindBudget
	// KindDecode means a compressed patch could not be decompressed.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindMap:
		return "map"
	case KindRead:
		return "read"
	case KindReadlink:
		return "readlink"
	case KindBudget:
		return "budget"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// LoadError is returned by every failed load.
//
// The OS error is kept verbatim and can be accessed via errors.Unwrap,
// so errors.Is(err, fs.ErrNotExist) works as usual.
type LoadError struct {
	Kind ErrorKind
	Op   string // failing step: open, stat, mmap, read, readlink, reserve, decompress
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	cause := e.Err
	// Avoid repeating the path already carried by the LoadError.
	var pe *os.PathError
	if errors.As(cause, &pe) && pe.Path == e.Path {
		cause = pe.Err
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, cause)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *LoadError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == kind
}
