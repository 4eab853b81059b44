// Package graphstore persists finished transcription graphs in SQLite.
//
// Graphs are stored as their ordered edge lists, one row per edge, with
// anchors in the textual form used by the JSON encoding. Loading re-issues
// drifting anchors from a fresh generator, so a loaded graph has the same
// shape but new drifting identities. Schema changes ship as embedded
// migrations applied on open; writers hold a lock file for the duration of
// each write.
package graphstore
