// Package source opens the cheat database for streaming, decompressing it on
// the fly when it is stored as gzip, zstd or lz4.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies how the source file is stored on disk.
type Codec string

const (
	Plain Codec = "plain"
	Gzip  Codec = "gzip"
	Zstd  Codec = "zstd"
	LZ4   Codec = "lz4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect picks a codec from the file extension, falling back to the leading
// bytes of the file when the extension is not a known compressed one.
func Detect(path string, head []byte) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	}
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	}
	return Plain
}

// Open returns a streaming reader over the decompressed contents of path.
// Closing it releases the decoder and the underlying file.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	buffered := bufio.NewReaderSize(file, 64*1024)
	// Peek errors only mean the file is shorter than the magic; Detect
	// copes with a short head.
	head, _ := buffered.Peek(len(zstdMagic))

	codec := Detect(path, head)
	rc, err := wrap(codec, buffered, file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("open %s source %s: %w", codec, path, err)
	}
	return rc, nil
}

// Stat is a convenience returning the codec Open would use for path.
func Stat(path string) (Codec, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer file.Close()
	head := make([]byte, len(zstdMagic))
	n, _ := io.ReadFull(file, head)
	return Detect(path, head[:n]), nil
}

func wrap(codec Codec, r io.Reader, file *os.File) (io.ReadCloser, error) {
	switch codec {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []func() error{zr.Close, file.Close}}, nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			file.Close,
		}}, nil
	case LZ4:
		return &readCloser{Reader: lz4.NewReader(r), closers: []func() error{file.Close}}, nil
	default:
		return &readCloser{Reader: r, closers: []func() error{file.Close}}, nil
	}
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var first error
	for _, fn := range rc.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
