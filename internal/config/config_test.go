package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"timegraph/internal/config"
	"timegraph/internal/services"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvStorePath, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStore := filepath.Join(tempHome, ".local", "share", "timegraph", "graphs.db")
	if cfg.Paths.StorePath != wantStore {
		t.Fatalf("unexpected store path: got %q want %q", cfg.Paths.StorePath, wantStore)
	}
	if !cfg.CTM.Punctuation {
		t.Fatal("expected punctuation kept by default")
	}
	if cfg.SRT.Split || cfg.SRT.EstimateDuration {
		t.Fatal("expected srt split and duration estimation disabled by default")
	}
	if cfg.CTM.Encoding != "utf-8" {
		t.Fatalf("unexpected ctm encoding: %q", cfg.CTM.Encoding)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvStorePath, "")

	configPath := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[paths]
store_path = "~/graphs/store.db"
log_dir = ""

[ctm]
punctuation = false
encoding = "Latin1"

[srt]
split = true
estimate_duration = true

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.StorePath != filepath.Join(tempHome, "graphs", "store.db") {
		t.Fatalf("unexpected store path: %q", cfg.Paths.StorePath)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.CTM.Punctuation {
		t.Fatal("expected punctuation stripping enabled")
	}
	if cfg.CTM.Encoding != "latin1" {
		t.Fatalf("expected normalized encoding, got %q", cfg.CTM.Encoding)
	}
	if !cfg.SRT.Split || !cfg.SRT.EstimateDuration {
		t.Fatalf("unexpected srt options: %+v", cfg.SRT)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging options: %+v", cfg.Logging)
	}
}

func TestStorePathEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	override := filepath.Join(t.TempDir(), "env.db")
	t.Setenv(config.EnvStorePath, override)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StorePath != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.StorePath)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvStorePath, "")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "log format", content: "[logging]\nformat = \"xml\"\n", want: "logging.format"},
		{name: "log level", content: "[logging]\nlevel = \"loud\"\n", want: "logging.level"},
		{name: "encoding", content: "[ctm]\nencoding = \"klingon-8\"\n", want: "ctm.encoding"},
		{name: "unknown key", content: "[ctm]\npunctation = true\n", want: "config: parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvStorePath, "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid toml: %v", err)
	}
	for _, section := range []string{"paths", "ctm", "srt", "logging"} {
		if _, ok := raw[section]; !ok {
			t.Fatalf("sample missing [%s] section", section)
		}
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.SRT.Split = true
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != cfg {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, cfg)
	}
}
