package ctm

import (
	"errors"
	"fmt"

	"timegraph/internal/transcript"
)

// ErrFinished is returned when a row is added to a finished builder.
var ErrFinished = errors.New("builder already finished")

type arcState uint8

const (
	arcNone arcState = iota
	// arcSingle tracks the last committed content edge from→to.
	arcSingle
	// arcChained tracks a content edge that corrections were spliced into;
	// tail is the anchor the next correction is inserted after.
	arcChained
)

// pendingArc is the most recently committed content edge, kept so that a
// zero-duration correction can be spliced into it.
type pendingArc struct {
	state arcState
	from  transcript.Anchor
	to    transcript.Anchor
	attrs transcript.Attrs
	tail  transcript.Anchor
}

// Builder turns word alignments for one (uri, channel) into a transcription
// graph. It is not safe for concurrent use; separate builders are
// independent.
type Builder struct {
	graph    *transcript.Graph
	ids      *transcript.IDGenerator
	previous transcript.Anchor
	pending  pendingArc
	words    int
	finished bool
}

// NewBuilder returns a builder whose graph is keyed by uri and channel.
func NewBuilder(uri, channel string) *Builder {
	return &Builder{
		graph:    transcript.NewGraph(uri, channel),
		ids:      transcript.NewIDGenerator(),
		previous: transcript.Start,
	}
}

// Add consumes one word. Start and duration are rounded to milliseconds
// first; a zero duration marks a correction to the previous word.
func (b *Builder) Add(word string, start, duration, confidence float64) error {
	if b.finished {
		return ErrFinished
	}
	start = round3(start)
	end := round3(start + round3(duration))
	attrs := transcript.Speech(word, confidence)
	b.words++

	if start == end {
		b.correct(attrs)
		return nil
	}

	startNode := transcript.At(start)
	endNode := transcript.At(end)
	if b.previous.IsDrifting() {
		if !b.graph.HasEdge(b.previous, startNode) {
			b.mustAdd(b.previous, startNode, transcript.Attrs{})
		}
	} else {
		cmp, _ := transcript.Compare(startNode, b.previous)
		switch {
		case cmp <= 0:
			startNode = b.previous
		default:
			b.mustAdd(b.previous, startNode, transcript.Attrs{})
		}
	}

	if cmp, ok := transcript.Compare(startNode, endNode); ok && cmp >= 0 {
		// Clamping swallowed the whole word.
		b.correct(attrs)
		return nil
	}

	b.mustAdd(startNode, endNode, attrs)
	b.pending = pendingArc{state: arcSingle, from: startNode, to: endNode, attrs: attrs}
	b.previous = endNode
	return nil
}

// correct splices a zero-length word into the pending arc.
func (b *Builder) correct(attrs transcript.Attrs) {
	switch b.pending.state {
	case arcSingle:
		// from→to becomes from→mid (original word), mid→tail (correction),
		// tail→to (empty).
		mid := b.ids.Next()
		tail := b.ids.Next()
		b.mustInsert(b.pending.from, b.pending.to, mid, b.pending.attrs, transcript.Attrs{})
		b.mustInsert(mid, b.pending.to, tail, attrs, transcript.Attrs{})
		b.pending.state = arcChained
		b.pending.tail = tail
		b.previous = b.pending.to
	case arcChained:
		next := b.ids.Next()
		b.mustInsert(b.pending.tail, b.pending.to, next, attrs, transcript.Attrs{})
		b.pending.tail = next
		b.previous = b.pending.to
	default:
		// Nothing to correct yet: the word follows previous with an
		// unresolved end.
		next := b.ids.Next()
		b.mustAdd(b.previous, next, attrs)
		b.previous = next
	}
}

// Finish closes the graph with an edge to End and returns it. Further calls
// return the same graph.
func (b *Builder) Finish() *transcript.Graph {
	if !b.finished {
		b.mustAdd(b.previous, transcript.End, transcript.Attrs{})
		b.finished = true
	}
	return b.graph
}

// Graph returns the graph built so far. Every committed edge satisfies the
// graph invariants even before Finish.
func (b *Builder) Graph() *transcript.Graph { return b.graph }

// Words returns the number of words consumed.
func (b *Builder) Words() int { return b.words }

// Invariant failures below are bugs in the builder, never input errors.

func (b *Builder) mustAdd(from, to transcript.Anchor, attrs transcript.Attrs) {
	if err := b.graph.AddEdge(from, to, attrs); err != nil {
		panic(fmt.Sprintf("ctm builder %s: %v", b.graph.Key(), err))
	}
}

func (b *Builder) mustInsert(from, to, mid transcript.Anchor, before, after transcript.Attrs) {
	if err := b.graph.InsertBetween(from, to, mid, before, after); err != nil {
		panic(fmt.Sprintf("ctm builder %s: %v", b.graph.Key(), err))
	}
}
