package fileutil

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenPlainAndGzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.ctm")
	if err := os.WriteFile(plain, []byte("uri1 1 1.0 0.5 hi 0.9\n"), 0o644); err != nil {
		t.Fatalf("write plain: %v", err)
	}

	compressed := filepath.Join(dir, "a.ctm.gz")
	f, err := os.Create(compressed)
	if err != nil {
		t.Fatalf("create gzip: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("uri1 1 1.0 0.5 hi 0.9\n")); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	for _, path := range []string{plain, compressed} {
		rc, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%s): %v", path, err)
		}
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if err := rc.Close(); err != nil {
			t.Fatalf("close %s: %v", path, err)
		}
		if string(data) != "uri1 1 1.0 0.5 hi 0.9\n" {
			t.Fatalf("%s content = %q", path, data)
		}
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil || len(data) != 0 {
		t.Fatalf("expected empty read, got %q %v", data, err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.ctm")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestStemAndExt(t *testing.T) {
	tests := []struct {
		path string
		stem string
		ext  string
	}{
		{path: "data/episode.en.srt", stem: "episode.en", ext: ".srt"},
		{path: "/tmp/sample.CTM.gz", stem: "sample", ext: ".ctm"},
		{path: "noext", stem: "noext", ext: ""},
	}
	for _, tt := range tests {
		if got := Stem(tt.path); got != tt.stem {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.stem)
		}
		if got := Ext(tt.path); got != tt.ext {
			t.Errorf("Ext(%q) = %q, want %q", tt.path, got, tt.ext)
		}
	}
}
