// Package srt reads SubRip subtitle files into transcription graphs keyed by
// (uri, "subtitle").
//
// Each cue becomes one subtitle edge, or one edge per speaker turn when
// splitting is enabled. Split lines either get drifting end anchors or, with
// duration estimation, anchored times proportional to their length. Gaps
// between cues become empty bridging edges; cues that start before the
// previous one ended are logged and kept.
package srt
