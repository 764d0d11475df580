package quiltarena

import (
	"sync/atomic"

	"github.com/hupe1980/quiltarena/internal/mmap"
)

// ResourceKind tells how the bytes behind a View are held.
type ResourceKind uint8

const (
	// ResourceNone is the kind of the zero View, which holds no bytes.
	ResourceNone ResourceKind = iota
	// ResourceOwned is a heap buffer holding a copy of the data.
	ResourceOwned
	// ResourceMapped is a read-only mapping of the file's pages.
	ResourceMapped
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceNone:
		return "none"
	case ResourceOwned:
		return "owned"
	case ResourceMapped:
		return "mapped"
	default:
		return "unknown"
	}
}

// entry is one registered resource. Its bytes never move and are never
// written after creation; only the *entry handle is passed around.
type entry struct {
	kind     ResourceKind
	data     []byte
	region   *mmap.Region // ResourceMapped only
	reserved int64        // bytes charged to the resource controller
	released atomic.Bool
}

// unmapRegion unmaps a mapped entry; replaced in tests.
var unmapRegion = (*mmap.Region).Unmap

func newOwned(data []byte) *entry {
	return &entry{kind: ResourceOwned, data: data}
}

func newMapped(r *mmap.Region) *entry {
	return &entry{kind: ResourceMapped, data: r.Bytes(), region: r}
}

func (r *entry) bytes() []byte {
	if r.released.Load() {
		return nil
	}
	return r.data
}

func (r *entry) size() int64 {
	return int64(len(r.data))
}

// release gives the bytes back. Mapped regions are unmapped exactly once;
// owned buffers are left to the garbage collector.
func (r *entry) release() error {
	if r.released.Swap(true) {
		return nil
	}
	switch r.kind {
	case ResourceMapped:
		return unmapRegion(r.region)
	default:
		return nil
	}
}
