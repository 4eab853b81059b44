package testsupport

import (
	"path/filepath"
	"testing"

	"timegraph/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StorePath = filepath.Join(base, "graphs.db")
	cfgVal.Paths.LogDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLogDir enables file logging under the test's temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// WithSplit enables SRT dialogue splitting and optional duration estimation.
func WithSplit(estimate bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.SRT.Split = true
		b.cfg.SRT.EstimateDuration = estimate
	}
}

// WithoutPunctuation enables punctuation stripping for CTM input.
func WithoutPunctuation() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CTM.Punctuation = false
	}
}
