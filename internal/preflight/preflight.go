package preflight

import (
	"context"
	"path/filepath"

	"timegraph/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	storeDir := filepath.Dir(cfg.Paths.StorePath)
	store := CheckCreatableDirectory("Store directory", storeDir)
	results = append(results, store)
	if store.Passed {
		results = append(results, CheckFreeSpace("Store free space", nearestExisting(storeDir), MinFreeBytes))
		results = append(results, CheckStore(ctx, cfg.Paths.StorePath))
	}

	// Log directory (when configured)
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckEncoding("CTM encoding", cfg.CTM.Encoding))
	results = append(results, CheckEncoding("SRT encoding", cfg.SRT.Encoding))

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

func nearestExisting(dir string) string {
	for {
		if result := CheckDirectoryAccess("", dir); result.Passed {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
