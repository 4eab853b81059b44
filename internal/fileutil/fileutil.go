package fileutil

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Open opens path for reading and transparently decompresses gzip content.
// Compression is detected from the magic bytes, so a ".gz" suffix is not
// required.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := wrap(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return rc, nil
}

func wrap(file *os.File) (io.ReadCloser, error) {
	buffered := bufio.NewReader(file)
	head, err := buffered.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(head) < len(gzipMagic) || head[0] != gzipMagic[0] || head[1] != gzipMagic[1] {
		return &readCloser{Reader: buffered, closers: []io.Closer{file}}, nil
	}
	gz, err := gzip.NewReader(buffered)
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}
	return &readCloser{Reader: gz, closers: []io.Closer{gz, file}}, nil
}

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

// Stem returns the file name without directory and without its extensions,
// ignoring a trailing ".gz". "data/episode.en.srt" becomes "episode.en".
func Stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the lowercase format extension of path, looking through a
// trailing ".gz". "a.CTM.gz" yields ".ctm".
func Ext(path string) string {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, ".gz")
	return filepath.Ext(base)
}
