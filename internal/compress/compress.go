// Package compress decodes compressed patch files.
//
// quilt accepts patches stored as name.patch.gz, name.patch.bz2 and so on;
// the codec is chosen from the file extension, never sniffed from content.
package compress

import (
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnsupported is returned for compression formats that are recognized but not decodable.
var ErrUnsupported = errors.New("unsupported compression")

// Codec decodes a whole compressed file.
// Implementations must be safe for concurrent use.
type Codec interface {
	Decode(src []byte) ([]byte, error)
	Name() string
}

// ForPath returns the codec for path's extension, or nil if the file is not compressed.
func ForPath(path string) (Codec, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gz":
		return Gzip{}, nil
	case ".bz2":
		return Bzip2{}, nil
	case ".zst":
		return Zstd{}, nil
	case ".lz4":
		return LZ4{}, nil
	case ".xz", ".lzma":
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	default:
		return nil, nil
	}
}

// Gzip decodes gzip streams (including concatenated members).
type Gzip struct{}

func (Gzip) Name() string { return "gzip" }

func (Gzip) Decode(src []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// Bzip2 decodes bzip2 streams.
type Bzip2 struct{}

func (Bzip2) Name() string { return "bzip2" }

func (Bzip2) Decode(src []byte) ([]byte, error) {
	return io.ReadAll(bzip2.NewReader(bytes.NewReader(src)))
}

// ZSTD decoder pool for efficiency
var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Zstd decodes zstd frames.
type Zstd struct{}

func (Zstd) Name() string { return "zstd" }

func (Zstd) Decode(src []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, err
	}
	defer putZstdDecoder(dec)
	return dec.DecodeAll(src, nil)
}

// LZ4 decodes lz4 frames.
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }

func (LZ4) Decode(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}
