package quiltarena

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var arenaFactories = []struct {
	name string
	new  func(...Option) Arena
}{
	{"heap", func(o ...Option) Arena { return NewHeap(o...) }},
	{"mmap", func(o ...Option) Arena { return NewMmap(o...) }},
}

func forEachArena(t *testing.T, fn func(t *testing.T, newArena func(...Option) Arena)) {
	for _, f := range arenaFactories {
		t.Run(f.name, func(t *testing.T) {
			fn(t, f.new)
		})
	}
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestArena_LoadFile(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		dir := t.TempDir()
		content := []byte("--- a/Makefile\r\n+++ b/Makefile\r\n@@ -1 +1 @@\r\n-all:\r\n+all: build\r\n")
		path := writeFile(t, dir, "0001-make.patch", content)

		a := newArena()
		defer a.Close()

		v, err := a.LoadFile(path)
		require.NoError(t, err)

		want, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, len(want), v.Len())
		assert.Equal(t, want, v.Bytes())
		assert.Equal(t, uint64(1), v.ID())
		assert.False(t, v.IsZero())

		s := a.Stats()
		assert.Equal(t, 1, s.LoadedFiles)
		assert.Equal(t, int64(len(content)), s.TotalSize)
	})
}

func TestArena_LoadFile_Kinds(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.c", []byte("int main(void) { return 0; }\n"))

	h := NewHeap()
	defer h.Close()
	hv, err := h.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ResourceOwned, hv.Kind())

	m := NewMmap()
	defer m.Close()
	mv, err := m.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ResourceMapped, mv.Kind())

	assert.Equal(t, Stats{LoadedFiles: 1, TotalSize: int64(hv.Len()), OwnedFiles: 1}, h.Stats())
	assert.Equal(t, Stats{LoadedFiles: 1, TotalSize: int64(mv.Len()), MappedFiles: 1}, m.Stats())
}

func TestArena_EmptyFile(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		path := writeFile(t, t.TempDir(), "new-file.c", nil)

		a := newArena()
		defer a.Close()

		v, err := a.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Len())
		assert.Equal(t, ResourceOwned, v.Kind())

		s := a.Stats()
		assert.Equal(t, 1, s.LoadedFiles)
		assert.Equal(t, int64(0), s.TotalSize)
	})
}

func TestArena_StatsSum(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		dir := t.TempDir()
		a := newArena()
		defer a.Close()

		var total int64
		for i := range 10 {
			content := []byte(strings.Repeat("x", i*100+1))
			v, err := a.LoadFile(writeFile(t, dir, fmt.Sprintf("f%d", i), content))
			require.NoError(t, err)
			total += int64(v.Len())
		}

		s := a.Stats()
		assert.Equal(t, 10, s.LoadedFiles)
		assert.Equal(t, total, s.TotalSize)
	})
}

func TestArena_NoDeduplication(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		path := writeFile(t, t.TempDir(), "series", []byte("0001.patch\n0002.patch\n"))

		a := newArena()
		defer a.Close()

		v1, err := a.LoadFile(path)
		require.NoError(t, err)
		v2, err := a.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, v1.Bytes(), v2.Bytes())
		assert.NotEqual(t, v1.ID(), v2.ID())
		assert.NotSame(t, &v1.Bytes()[0], &v2.Bytes()[0])

		s := a.Stats()
		assert.Equal(t, 2, s.LoadedFiles)
		assert.Equal(t, int64(2*v1.Len()), s.TotalSize)
	})
}

func TestArena_LoadSymlinkTarget(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		dir := t.TempDir()
		writeFile(t, dir, "real.h", []byte("#pragma once\n"))
		link := filepath.Join(dir, "alias.h")
		symlink(t, "real.h", link)

		a := newArena()
		defer a.Close()

		v, err := a.LoadSymlinkTarget(link)
		require.NoError(t, err)
		assert.Equal(t, "real.h", string(v.Bytes()))
		assert.Equal(t, ResourceOwned, v.Kind())

		s := a.Stats()
		assert.Equal(t, 1, s.LoadedFiles)
		assert.Equal(t, int64(len("real.h")), s.TotalSize)
	})
}

func TestArena_LoadSymlinkTarget_NotALink(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		path := writeFile(t, t.TempDir(), "regular", []byte("data"))

		a := newArena()
		defer a.Close()

		v, err := a.LoadSymlinkTarget(path)
		require.Error(t, err)
		assert.True(t, v.IsZero())
		assert.True(t, IsKind(err, KindReadlink))

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, path, le.Path)
		assert.Equal(t, Stats{}, a.Stats())
	})
}

func TestArena_LoadFile_NotExist(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		a := newArena()
		defer a.Close()

		_, err := a.LoadFile(filepath.Join(t.TempDir(), "missing.patch"))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindOpen))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
		assert.Equal(t, Stats{}, a.Stats())
	})
}

func TestArena_LoadFile_Directory(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		a := newArena()
		defer a.Close()

		_, err := a.LoadFile(t.TempDir())
		require.Error(t, err)
		assert.Equal(t, 0, a.Stats().LoadedFiles)
	})
}

func TestArena_Concurrent(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		const k = 300
		dir := t.TempDir()

		paths := make([]string, k)
		var want int64
		for i := range k {
			size := 1 + (i*37)%5000
			paths[i] = writeFile(t, dir, fmt.Sprintf("file-%03d", i), []byte(strings.Repeat("a", size)))
			want += int64(size)
		}

		a := newArena()
		defer a.Close()

		var wg sync.WaitGroup
		views := make([]View, k)
		errs := make([]error, k)
		for i := range k {
			wg.Add(1)
			go func() {
				defer wg.Done()
				views[i], errs[i] = a.LoadFile(paths[i])
			}()
		}
		wg.Wait()

		ids := make(map[uint64]struct{}, k)
		for i := range k {
			require.NoError(t, errs[i])
			assert.Equal(t, 1+(i*37)%5000, views[i].Len())
			ids[views[i].ID()] = struct{}{}
		}
		assert.Len(t, ids, k)

		s := a.Stats()
		assert.Equal(t, k, s.LoadedFiles)
		assert.Equal(t, want, s.TotalSize)
	})
}

func TestArena_Close(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		dir := t.TempDir()
		path := writeFile(t, dir, "f", []byte("content"))
		link := filepath.Join(dir, "l")
		symlink(t, "f", link)

		metrics := &BasicMetricsCollector{}
		a := newArena(WithMetricsCollector(metrics))

		v, err := a.LoadFile(path)
		require.NoError(t, err)
		lv, err := a.LoadSymlinkTarget(link)
		require.NoError(t, err)

		require.NoError(t, a.Close())

		// Outstanding handles are invalidated.
		assert.Nil(t, v.Bytes())
		assert.Nil(t, lv.Bytes())
		assert.Equal(t, 0, v.Len())
		assert.Equal(t, Stats{}, a.Stats())

		// Idempotent
		require.NoError(t, a.Close())

		stats := metrics.GetStats()
		assert.Equal(t, int64(2), stats.ReleaseCount)
		assert.Equal(t, int64(len("content")+len("f")), stats.ReleasedBytes)

		_, err = a.LoadFile(path)
		assert.ErrorIs(t, err, ErrClosed)
		_, err = a.LoadSymlinkTarget(link)
		assert.ErrorIs(t, err, ErrClosed)
		_, err = a.Adopt([]byte("x"))
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestArena_Adopt(t *testing.T) {
	forEachArena(t, func(t *testing.T, newArena func(...Option) Arena) {
		a := newArena()
		defer a.Close()

		v, err := a.Adopt([]byte("decompressed patch"))
		require.NoError(t, err)
		assert.Equal(t, "decompressed patch", string(v.Bytes()))
		assert.Equal(t, ResourceOwned, v.Kind())
		assert.Equal(t, Stats{LoadedFiles: 1, TotalSize: 18, OwnedFiles: 1}, a.Stats())
	})
}

func TestView_Zero(t *testing.T) {
	var v View
	assert.True(t, v.IsZero())
	assert.Nil(t, v.Bytes())
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, uint64(0), v.ID())
	assert.Equal(t, ResourceNone, v.Kind())
}

func TestStats_String(t *testing.T) {
	s := Stats{LoadedFiles: 3, TotalSize: 4096}
	assert.Equal(t, "Arena Statistics (loaded files: 3, total size: 4096 B)", s.String())
}
