package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timegraph/internal/testsupport"
	"timegraph/internal/transcript"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	base := t.TempDir()
	result := CheckCreatableDirectory("test", filepath.Join(base, "a", "b"))
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("detail = %q", result.Detail)
	}
	if _, err := os.Stat(filepath.Join(base, "a")); !os.IsNotExist(err) {
		t.Fatal("check must not create directories")
	}

	f := filepath.Join(base, "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCreatableDirectory("test", filepath.Join(f, "sub")); result.Passed {
		t.Fatal("expected failure below a regular file")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("test", dir, 1); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckFreeSpace("test", dir, ^uint64(0)); result.Passed {
		t.Fatal("expected failure for impossible requirement")
	}
	if result := CheckFreeSpace("test", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckEncoding(t *testing.T) {
	if result := CheckEncoding("test", "latin1"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckEncoding("test", ""); !result.Passed || result.Detail != "utf-8" {
		t.Fatalf("empty label = %+v", result)
	}
	if result := CheckEncoding("test", "klingon-8"); result.Passed {
		t.Fatal("expected failure for unknown charset")
	}
}

func TestCheckStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	result := CheckStore(context.Background(), cfg.Paths.StorePath)
	if !result.Passed || !strings.Contains(result.Detail, "not created yet") {
		t.Fatalf("missing store = %+v", result)
	}
	if _, err := os.Stat(cfg.Paths.StorePath); !os.IsNotExist(err) {
		t.Fatal("check must not create the store")
	}

	store := testsupport.MustOpenStore(t, cfg)
	g := transcript.NewGraph("u", "A")
	if err := g.AddEdge(transcript.Start, transcript.End, transcript.Attrs{}); err != nil {
		t.Fatal(err)
	}
	testsupport.MustSave(t, store, g)

	result = CheckStore(context.Background(), cfg.Paths.StorePath)
	if !result.Passed || !strings.Contains(result.Detail, "(1 graphs, schema v2)") {
		t.Fatalf("populated store = %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_DefaultTestConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLogDir())

	results := RunAll(context.Background(), cfg)
	// store dir, free space, store, log dir, two encodings
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_ReportsBadEncoding(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.SRT.Encoding = "klingon-8"

	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "SRT encoding" {
		t.Fatalf("failed = %+v", failed)
	}
}
