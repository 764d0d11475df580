// Package series reads quilt series files and loads the patches they list.
//
// A series file names one patch per line, optionally followed by options:
//
//	# comment
//	0001-fix-build.patch
//	0002-backport.patch -p0
//	0003-revert.patch -R
//	0004-compressed.patch.gz -p2 -R
//
// Patch content itself is never interpreted here.
package series

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/quiltarena"
)

// DefaultStrip is the -p level used when a series line has none.
const DefaultStrip = 1

// Patch is one entry of a series file.
type Patch struct {
	Name    string
	Strip   int      // -pN
	Reverse bool     // -R
	Options []string // options not understood here, kept verbatim
	Line    int      // 1-based line in the series file
}

// ParseError reports a malformed series line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("series: line %d: %s", e.Line, e.Msg)
}

// Parse parses the content of a series file.
func Parse(data []byte) ([]Patch, error) {
	var patches []Patch

	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(stripComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}

		p := Patch{Name: fields[0], Strip: DefaultStrip, Line: line}
		for _, opt := range fields[1:] {
			switch {
			case opt == "-R":
				p.Reverse = true
			case strings.HasPrefix(opt, "-p"):
				n, err := strconv.Atoi(opt[2:])
				if err != nil || n < 0 {
					return nil, &ParseError{Line: line, Msg: fmt.Sprintf("invalid strip level %q", opt)}
				}
				p.Strip = n
			default:
				p.Options = append(p.Options, opt)
			}
		}
		patches = append(patches, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return patches, nil
}

// stripComment cuts text at the first '#' that starts a word.
func stripComment(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '#' && (i == 0 || text[i-1] == ' ' || text[i-1] == '\t') {
			return text[:i]
		}
	}
	return text
}

// Options configures Load.
type Options struct {
	// SeriesFile is the name of the series file inside the patch directory.
	SeriesFile string
	// Workers bounds the goroutines loading patches. <= 0 means unbounded.
	Workers int
}

// Series is a loaded series: its entries and one view per patch, in order.
type Series struct {
	Dir     string
	Patches []Patch
	Views   []quiltarena.View
}

// Load reads the series file in dir through a and loads every patch it
// lists in parallel. Compressed patches are decompressed.
func Load(ctx context.Context, a quiltarena.Arena, dir string, optFns ...func(*Options)) (*Series, error) {
	opts := Options{SeriesFile: "series"}
	for _, fn := range optFns {
		fn(&opts)
	}

	sv, err := a.LoadFile(filepath.Join(dir, opts.SeriesFile))
	if err != nil {
		return nil, err
	}

	patches, err := Parse(sv.Bytes())
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(patches))
	for i, p := range patches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(p.Name))
	}

	views, err := quiltarena.LoadAll(ctx, paths, opts.Workers, func(path string) (quiltarena.View, error) {
		return quiltarena.LoadPatch(a, path)
	})
	if err != nil {
		return nil, err
	}

	return &Series{Dir: dir, Patches: patches, Views: views}, nil
}
