// Package main hosts the timegraph CLI entrypoint and command graph.
//
// The Cobra-based command tree reads CTM and SRT files into transcript
// graphs, prints their edges as tables, TSV or JSON, and moves graphs in
// and out of the local graph store. It centralizes configuration
// resolution, logger construction and per-invocation correlation ids so
// subcommands can focus on output.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it here through commands or flags.
package main
