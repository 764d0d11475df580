package quiltarena

import (
	"time"

	"github.com/hupe1980/quiltarena/internal/mmap"
)

// MmapArena maps files straight into the address space instead of copying them.
//
// Every file is mapped read-only and private, starting at offset zero, and
// the descriptor is closed right away. Symbolic link targets have no file
// content to map and are kept in owned buffers, as in HeapArena.
//
// Files that report a size of zero are not mapped either, since the OS
// rejects zero-length mappings (EINVAL on Linux). They are read to EOF into
// an owned buffer instead: empty for really empty files, the full content
// for pseudo-files such as those under /proc that report zero.
//
// An MmapArena is safe to share between goroutines even though it holds
// mapped memory: the regions are never written after creation and are only
// unmapped by Close.
//
// If another process modifies or truncates a file after it was mapped,
// views may observe the new bytes, or the process may die with SIGBUS.
// This is an accepted limitation.
type MmapArena struct {
	core
}

// NewMmap creates an empty memory-mapping arena.
func NewMmap(optFns ...Option) *MmapArena {
	a := &MmapArena{}
	a.init("mmap", optFns)
	return a
}

// LoadFile implements Arena.
func (a *MmapArena) LoadFile(path string) (View, error) {
	start := time.Now()
	v, err := a.loadFile(path)
	return a.observe(OpLoadFile, path, start, v, err)
}

func (a *MmapArena) loadFile(path string) (View, error) {
	if a.closed.Load() {
		return View{}, ErrClosed
	}

	f, size, err := a.open(path)
	if err != nil {
		return View{}, err
	}
	defer f.Close()

	if size == 0 {
		// Zero bytes cannot be mapped. Pseudo-files that report 0 may still
		// have content, so read whatever is there.
		data, err := a.readContent(path, f, 0)
		if err != nil {
			return View{}, err
		}
		return a.ownedFrom(path, data)
	}

	if err := a.reserve(path, size); err != nil {
		return View{}, err
	}

	region, err := mmap.Map(f, size)
	if err != nil {
		a.opts.controller.ReleaseMemory(size)
		return View{}, &LoadError{Kind: KindMap, Op: "mmap", Path: path, Err: err}
	}

	res := newMapped(region)
	res.reserved = size
	return a.commit(res)
}
