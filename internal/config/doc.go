// Package config loads, normalizes, and validates timegraph configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TIMEGRAPH_STORE_PATH
// environment override. Reader options for CTM and SRT input live here so the
// CLI and the loader see the same defaults.
package config
