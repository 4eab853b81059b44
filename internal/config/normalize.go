package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeReaders()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(EnvStorePath); ok && strings.TrimSpace(value) != "" {
		c.Paths.StorePath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StorePath) == "" {
		c.Paths.StorePath = defaultStorePath
	}
	var err error
	if c.Paths.StorePath, err = expandPath(c.Paths.StorePath); err != nil {
		return fmt.Errorf("paths.store_path: %w", err)
	}
	// An empty log_dir keeps logging on stderr only.
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeReaders() {
	c.CTM.Encoding = strings.ToLower(strings.TrimSpace(c.CTM.Encoding))
	if c.CTM.Encoding == "" {
		c.CTM.Encoding = defaultEncoding
	}
	c.SRT.Encoding = strings.ToLower(strings.TrimSpace(c.SRT.Encoding))
	if c.SRT.Encoding == "" {
		c.SRT.Encoding = defaultEncoding
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
