// Package fileio opens input and output streams for the command-line tool.
// Gzip-compressed input is detected by its magic bytes; output is compressed
// when the file name ends in .gz.
package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// Stdio is the path that selects stdin or stdout.
const Stdio = "-"

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading. An empty path or "-" reads stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == Stdio {
		return NewReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	rc, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rc.(*readCloser).closers = append(rc.(*readCloser).closers, f)
	return rc, nil
}

// NewReader wraps r, decompressing it when it starts with the gzip magic number.
// Closing the result does not close r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read input header: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz}}, nil
	}

	return &readCloser{Reader: br}, nil
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (wc *writeCloser) Close() error {
	var first error
	for _, c := range wc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Create creates path for writing. An empty path or "-" writes stdout, which
// is left open on Close.
func Create(path string) (io.WriteCloser, error) {
	if path == "" || path == Stdio {
		return &writeCloser{Writer: os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz := pgzip.NewWriter(f)
		return &writeCloser{Writer: gz, closers: []io.Closer{gz, f}}, nil
	}
	return &writeCloser{Writer: f, closers: []io.Closer{f}}, nil
}
