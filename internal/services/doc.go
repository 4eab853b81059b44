// Package services defines shared utilities consumed by the readers, the
// graph store, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and source names for
//     logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (bad input vs operational failure) and pick an exit code.
//
// Use these helpers when wiring new readers so error handling and
// observability stay uniform across the tool.
package services
