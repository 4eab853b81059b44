// Package ctm reads CTM word alignments into transcription graphs.
//
// Each (uri, channel) pair gets its own Builder. Rows are rounded to
// millisecond precision; a row with zero duration (or one swallowed by an
// overlap with the previous word) is treated as a correction and spliced
// into the last committed word edge between fresh drifting anchors, so
// repeated corrections chain onto each other instead of re-splitting the
// original edge. Gaps between words become empty bridging edges.
package ctm
