package quiltarena

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/quiltarena/internal/compress"
)

// LoadPath loads path the way a patch target is read: the link text if
// path is a symbolic link, the file content otherwise.
func LoadPath(a Arena, path string) (View, error) {
	lstat := os.Lstat
	if l, ok := a.(interface {
		lstat(string) (os.FileInfo, error)
	}); ok {
		lstat = l.lstat
	}

	fi, err := lstat(path)
	if err != nil {
		return View{}, &LoadError{Kind: KindOpen, Op: "lstat", Path: path, Err: err}
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return a.LoadSymlinkTarget(path)
	}
	return a.LoadFile(path)
}

// LoadPatch loads a patch file. Compressed patches (.gz, .bz2, .zst, .lz4)
// are decompressed into an owned buffer adopted by a; the compressed bytes
// stay registered as well.
func LoadPatch(a Arena, path string) (View, error) {
	codec, err := compress.ForPath(path)
	if err != nil {
		return View{}, &LoadError{Kind: KindDecode, Op: "decompress", Path: path, Err: err}
	}

	v, err := a.LoadFile(path)
	if err != nil || codec == nil {
		return v, err
	}

	data, err := codec.Decode(v.Bytes())
	if err != nil {
		return View{}, &LoadError{Kind: KindDecode, Op: "decompress", Path: path, Err: err}
	}
	return a.Adopt(data)
}

// LoadFunc loads a single path.
type LoadFunc func(path string) (View, error)

// LoadAll runs load for every path on up to workers goroutines
// (unbounded if workers <= 0). Views are returned in the order of paths.
// The first failure cancels the paths not yet started and is returned.
func LoadAll(ctx context.Context, paths []string, workers int, load LoadFunc) ([]View, error) {
	views := make([]View, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := load(path)
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// LoadFiles loads every path with a.LoadFile in parallel. See LoadAll.
func LoadFiles(ctx context.Context, a Arena, paths []string, workers int) ([]View, error) {
	return LoadAll(ctx, paths, workers, a.LoadFile)
}
