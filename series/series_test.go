package series

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quiltarena"
)

func TestParse(t *testing.T) {
	data := []byte(`# upstream fixes
0001-fix-build.patch

0002-backport.patch -p0   # from 2.x
0003-revert.patch -R
sub/0004.patch.gz -p2 -R --fuzz=0
	# indented comment
file#with-hash.patch # trailing
`)

	patches, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, patches, 5)

	assert.Equal(t, Patch{Name: "0001-fix-build.patch", Strip: 1, Line: 2}, patches[0])
	assert.Equal(t, Patch{Name: "0002-backport.patch", Strip: 0, Line: 4}, patches[1])
	assert.Equal(t, Patch{Name: "0003-revert.patch", Strip: 1, Reverse: true, Line: 5}, patches[2])
	assert.Equal(t, Patch{Name: "sub/0004.patch.gz", Strip: 2, Reverse: true, Options: []string{"--fuzz=0"}, Line: 6}, patches[3])
	assert.Equal(t, "file#with-hash.patch", patches[4].Name)
}

func TestParse_Errors(t *testing.T) {
	for _, line := range []string{"a.patch -px", "a.patch -p-1", "a.patch -p"} {
		_, err := Parse([]byte("ok.patch\n" + line + "\n"))
		var pe *ParseError
		require.ErrorAs(t, err, &pe, line)
		assert.Equal(t, 2, pe.Line)
		assert.Contains(t, pe.Error(), "series: line 2")
	}

	patches, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func writePatchDir(t *testing.T, n int) (string, [][]byte) {
	t.Helper()
	dir := t.TempDir()

	var series strings.Builder
	contents := make([][]byte, n)
	for i := range n {
		contents[i] = []byte(fmt.Sprintf("--- a/f%d\n+++ b/f%d\n@@ -1 +1 @@\n-%d\n+%d\n", i, i, i, i+1))
		name := fmt.Sprintf("%04d.patch", i)
		data := contents[i]
		if i%3 == 0 {
			name += ".gz"
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, err := zw.Write(data)
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			data = buf.Bytes()
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
		fmt.Fprintf(&series, "%s -p1\n", name)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "series"), []byte(series.String()), 0o644))
	return dir, contents
}

func TestLoad(t *testing.T) {
	for _, a := range []quiltarena.Arena{quiltarena.NewHeap(), quiltarena.NewMmap()} {
		dir, contents := writePatchDir(t, 20)

		s, err := Load(context.Background(), a, dir, func(o *Options) { o.Workers = 4 })
		require.NoError(t, err)
		require.Len(t, s.Patches, 20)
		require.Len(t, s.Views, 20)
		for i, v := range s.Views {
			assert.Equal(t, contents[i], v.Bytes(), s.Patches[i].Name)
		}

		// series file + 20 patches + 7 decompressed buffers
		assert.Equal(t, 28, a.Stats().LoadedFiles)
		require.NoError(t, a.Close())
	}
}

func TestLoad_Errors(t *testing.T) {
	a := quiltarena.NewHeap()
	defer a.Close()

	_, err := Load(context.Background(), a, t.TempDir())
	assert.True(t, quiltarena.IsKind(err, quiltarena.KindOpen))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patches.txt"), []byte("missing.patch\n"), 0o644))
	_, err = Load(context.Background(), a, dir, func(o *Options) { o.SeriesFile = "patches.txt" })
	assert.True(t, quiltarena.IsKind(err, quiltarena.KindOpen))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad"), []byte("x.patch -pz\n"), 0o644))
	_, err = Load(context.Background(), a, dir, func(o *Options) { o.SeriesFile = "bad" })
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
