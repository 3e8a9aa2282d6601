package eventsource

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// Magic byte signatures for compression detection
var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// readCloser pairs a decompressing reader with the file it reads from.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openDecompressed opens path and transparently decompresses gzip and xz content.
func openDecompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	// XZ has the longest magic (6 bytes)
	header, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch {
	case bytes.HasPrefix(header, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil

	case bytes.HasPrefix(header, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return &readCloser{Reader: xr, closers: []io.Closer{f}}, nil

	default:
		return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
	}
}
