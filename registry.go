package quiltarena

import "sync"

// registry is the append-only ledger of live resources.
// The lock only guards the slice; no I/O happens while it is held.
type registry struct {
	mu        sync.Mutex
	resources []*entry
	closed    bool
}

// register appends r and returns its ID.
func (g *registry) register(r *entry) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, ErrClosed
	}
	g.resources = append(g.resources, r)
	return uint64(len(g.resources)), nil
}

func (g *registry) snapshot() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	var s Stats
	for _, r := range g.resources {
		s.TotalSize += r.size()
		if r.kind == ResourceMapped {
			s.MappedFiles++
		} else {
			s.OwnedFiles++
		}
	}
	s.LoadedFiles = len(g.resources)
	return s
}

// drain closes the registry and hands every entry to the caller for release.
// Later register calls fail with ErrClosed.
func (g *registry) drain() []*entry {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	resources := g.resources
	g.resources = nil
	return resources
}
