// Package transcript models utterance timelines as directed temporal graphs.
//
// Nodes are Anchors: the Start and End sentinels, anchored points with an
// exact time, and drifting points whose time is unresolved and which are
// only known by generation order. Edges point forward in time and carry
// either nothing (gaps and bridges), a recognized word with its confidence,
// or a subtitle line.
//
// Builders in the ctm and srt packages own a Graph while they construct it;
// callers receive finished graphs grouped in a Collection keyed by resource
// and channel.
package transcript
