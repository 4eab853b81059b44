// Package logging assembles structured slog loggers and formatting helpers used
// across timegraph.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so readers automatically tag
// log lines with the correlation id and source file of the current read. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
