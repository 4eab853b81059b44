package config

import (
	"errors"
	"fmt"

	"timegraph/internal/services"
	"timegraph/internal/textutil"
)

// Validate ensures the configuration is usable. Failures are tagged with
// services.ErrConfiguration.
func (c *Config) Validate() error {
	for _, check := range []func() error{c.validatePaths, c.validateEncodings, c.validateLogging} {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StorePath == "" {
		return errors.New("paths.store_path must be set")
	}
	return nil
}

func (c *Config) validateEncodings() error {
	if _, err := textutil.LookupEncoding(c.CTM.Encoding); err != nil {
		return fmt.Errorf("ctm.encoding: %w", err)
	}
	if _, err := textutil.LookupEncoding(c.SRT.Encoding); err != nil {
		return fmt.Errorf("srt.encoding: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
