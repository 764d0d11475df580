package quiltarena

import (
	"context"
	"io"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/quiltarena/internal/fs"
	"github.com/hupe1980/quiltarena/resource"
)

// HeapArena reads every file into a freshly allocated owned buffer.
//
// It works on every platform and pays one full copy per file.
type HeapArena struct {
	core
}

// NewHeap creates an empty heap-backed arena.
func NewHeap(optFns ...Option) *HeapArena {
	a := &HeapArena{}
	a.init("heap", optFns)
	return a
}

// LoadFile implements Arena.
func (a *HeapArena) LoadFile(path string) (View, error) {
	start := time.Now()
	v, err := a.loadFile(path)
	return a.observe(OpLoadFile, path, start, v, err)
}

func (a *HeapArena) loadFile(path string) (View, error) {
	if a.closed.Load() {
		return View{}, ErrClosed
	}

	f, size, err := a.open(path)
	if err != nil {
		return View{}, err
	}
	defer f.Close()

	data, err := a.readContent(path, f, size)
	if err != nil {
		return View{}, err
	}
	return a.ownedFrom(path, data)
}

// open opens path and returns the size reported by its metadata.
func (c *core) open(path string) (fs.File, int64, error) {
	f, err := c.opts.fs.Open(path)
	if err != nil {
		return nil, 0, &LoadError{Kind: KindOpen, Op: "open", Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, &LoadError{Kind: KindOpen, Op: "stat", Path: path, Err: err}
	}
	return f, fi.Size(), nil
}

// readContent reads f to the end, throttled by the resource controller.
func (c *core) readContent(path string, f io.Reader, sizeHint int64) ([]byte, error) {
	r := f
	if c.opts.controller != nil {
		r = resource.NewRateLimitedReader(context.Background(), f, c.opts.controller)
	}
	data, err := readAll(r, sizeHint)
	if err != nil {
		return nil, &LoadError{Kind: KindRead, Op: "read", Path: path, Err: err}
	}
	return data, nil
}

const minReadBuffer = 512

// readAll reads until EOF. sizeHint is trusted only as a starting capacity:
// remote and virtual filesystems report sizes that may be 0 or stale.
func readAll(r io.Reader, sizeHint int64) ([]byte, error) {
	n := minReadBuffer
	if sizeHint > 0 && uint64(sizeHint) < uint64(math.MaxInt) {
		// One extra byte so that reaching EOF does not force a grow.
		n = int(sizeHint) + 1
	}

	data := make([]byte, 0, n)
	for {
		if len(data) == cap(data) {
			data = append(data, 0)[:len(data)]
		}
		m, err := r.Read(data[len(data):cap(data)])
		data = data[:len(data)+m]
		if err == io.EOF {
			// The buffer is handed out as-is; clip so it can never be appended to in place.
			return slices.Clip(data), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
