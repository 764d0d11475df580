package quiltarena

// Arena owns every byte loaded during a patch run and hands out read-only
// views into it. All methods are safe for concurrent use.
//
// Loads are never deduplicated: loading the same path twice registers two
// independent resources.
type Arena interface {
	// LoadFile loads the complete content of the file at path.
	LoadFile(path string) (View, error)

	// LoadSymlinkTarget loads the text of the symbolic link at path,
	// not the content of the file it points to.
	LoadSymlinkTarget(path string) (View, error)

	// Adopt registers data as an owned buffer of the arena. The caller
	// must not modify data afterwards.
	Adopt(data []byte) (View, error)

	// Stats returns a snapshot of the registered resources.
	Stats() Stats

	// Close releases every resource. Views obtained earlier return nil
	// from Bytes afterwards; further loads fail with ErrClosed.
	Close() error
}

// View is a handle to bytes owned by an Arena.
//
// The zero View is empty. Views are cheap to copy and may be shared
// between goroutines; nobody may write through Bytes.
type View struct {
	res *entry
	id  uint64
}

// Bytes returns the viewed bytes, or nil once the owning arena was closed.
func (v View) Bytes() []byte {
	if v.res == nil {
		return nil
	}
	return v.res.bytes()
}

// Len returns len(v.Bytes()).
func (v View) Len() int {
	return len(v.Bytes())
}

// ID identifies the resource behind the view. IDs are unique per arena
// and start at 1.
func (v View) ID() uint64 {
	return v.id
}

// Kind reports how the bytes are held. The zero View reports ResourceNone.
func (v View) Kind() ResourceKind {
	if v.res == nil {
		return ResourceNone
	}
	return v.res.kind
}

// IsZero reports whether v is the zero View.
func (v View) IsZero() bool {
	return v.res == nil
}

var (
	_ Arena = (*HeapArena)(nil)
	_ Arena = (*MmapArena)(nil)
)
