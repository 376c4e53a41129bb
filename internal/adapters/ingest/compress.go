package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Decompress wraps r in a gzip or zstd reader when the name or the leading
// magic bytes say so; otherwise r is returned as is. The caller closes the
// result.
func Decompress(r io.Reader, name string) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))

	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".gz" || bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return zr, nil
	case ext == ".zst" || bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return io.NopCloser(br), nil
	}
}

// stripCompression drops a trailing .gz or .zst.
func stripCompression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".zst":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// Compress wraps w in a gzip or zstd writer chosen by the extension of
// name; other names get w unchanged. Closing the result flushes the stream
// but leaves w open.
func Compress(w io.Writer, name string) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gzip.NewWriter(w), nil
	case ".zst":
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("opening zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
