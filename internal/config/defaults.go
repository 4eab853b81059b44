package config

const (
	defaultConfigPath = "~/.config/timegraph/config.toml"
	defaultStorePath  = "~/.local/share/timegraph/graphs.db"
	defaultLogDir     = "~/.local/share/timegraph/logs"
	defaultEncoding   = "utf-8"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	// EnvStorePath overrides paths.store_path when set.
	EnvStorePath = "TIMEGRAPH_STORE_PATH"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorePath: defaultStorePath,
			LogDir:    defaultLogDir,
		},
		CTM: CTM{
			Punctuation: true,
			Encoding:    defaultEncoding,
		},
		SRT: SRT{
			Encoding: defaultEncoding,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
