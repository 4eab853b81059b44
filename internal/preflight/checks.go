package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"timegraph/internal/graphstore"
	"timegraph/internal/textutil"
)

// MinFreeBytes is the free space required on the store filesystem.
const MinFreeBytes = 64 << 20

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatableDirectory passes when path is an accessible directory or
// can be created under its nearest existing ancestor.
func CheckCreatableDirectory(name, path string) Result {
	dir := filepath.Clean(path)
	for {
		_, err := os.Stat(dir)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", dir, err)}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
		}
		dir = parent
	}
	result := CheckDirectoryAccess(name, dir)
	if result.Passed && dir != filepath.Clean(path) {
		result.Detail = fmt.Sprintf("%s (will be created under %s)", path, dir)
	}
	return result
}

// CheckFreeSpace verifies that the filesystem holding path has at least minBytes
// bytes available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%d MiB available)", path, available>>20)
	if available < minBytes {
		return Result{Name: name, Detail: detail + fmt.Sprintf(", need %d MiB", minBytes>>20)}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckEncoding verifies that a configured charset label is known.
func CheckEncoding(name, label string) Result {
	if _, err := textutil.LookupEncoding(label); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if label == "" {
		label = "utf-8"
	}
	return Result{Name: name, Passed: true, Detail: label}
}

// CheckStore opens an existing graph store and counts its graphs. A store
// that does not exist yet passes without being created.
func CheckStore(ctx context.Context, path string) Result {
	const name = "Graph store"
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not created yet)", path)}
	}
	store, err := graphstore.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()
	summaries, err := store.List(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	version, err := store.SchemaVersion(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d graphs, schema v%d)", path, len(summaries), version)}
}
