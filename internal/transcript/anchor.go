package transcript

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Kind identifies which variant an Anchor holds.
type Kind uint8

const (
	KindStart Kind = iota
	KindAnchored
	KindDrifting
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindAnchored:
		return "anchored"
	case KindDrifting:
		return "drifting"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Anchor is a point on the timeline. Anchors are comparable values and are
// used directly as graph node keys: two anchored anchors with the same time
// are the same node, while every drifting anchor is unique to the generator
// call that produced it.
type Anchor struct {
	kind    Kind
	seconds float64
	space   uint32
	seq     uint64
}

var (
	// Start bounds every graph from the left.
	Start = Anchor{kind: KindStart}
	// End bounds every graph from the right.
	End = Anchor{kind: KindEnd}
)

// At returns the anchored node for an exact time in seconds.
func At(seconds float64) Anchor {
	if seconds == 0 {
		// collapse -0 onto +0 so both map to the same node
		seconds = 0
	}
	return Anchor{kind: KindAnchored, seconds: seconds}
}

func (a Anchor) Kind() Kind { return a.kind }

func (a Anchor) IsAnchored() bool { return a.kind == KindAnchored }

func (a Anchor) IsDrifting() bool { return a.kind == KindDrifting }

func (a Anchor) IsSentinel() bool { return a.kind == KindStart || a.kind == KindEnd }

// Seconds returns the chronological position used for display and
// comparison: -Inf for Start, +Inf for End, NaN for drifting anchors.
func (a Anchor) Seconds() float64 {
	switch a.kind {
	case KindStart:
		return math.Inf(-1)
	case KindEnd:
		return math.Inf(1)
	case KindAnchored:
		return a.seconds
	default:
		return math.NaN()
	}
}

// Time returns the exact time of the anchor and whether it is known.
// Sentinels report their infinities as known.
func (a Anchor) Time() (float64, bool) {
	if a.kind == KindDrifting {
		return 0, false
	}
	return a.Seconds(), true
}

// Seq returns the generation order of a drifting anchor (zero otherwise).
func (a Anchor) Seq() uint64 { return a.seq }

func (a Anchor) String() string {
	switch a.kind {
	case KindStart:
		return "-inf"
	case KindEnd:
		return "+inf"
	case KindAnchored:
		return strconv.FormatFloat(a.seconds, 'f', 3, 64)
	case KindDrifting:
		return "~" + strconv.FormatUint(a.seq, 10)
	default:
		return fmt.Sprintf("anchor(%d)", a.kind)
	}
}

// Compare orders two anchors. ok is false when no order is defined between
// them: a drifting anchor is only comparable to the sentinels, to itself,
// and to other drifting anchors of the same generator.
func Compare(a, b Anchor) (cmp int, ok bool) {
	if a == b {
		return 0, true
	}
	switch {
	case a.kind == KindStart || b.kind == KindEnd:
		return -1, true
	case a.kind == KindEnd || b.kind == KindStart:
		return 1, true
	}
	switch {
	case a.kind == KindAnchored && b.kind == KindAnchored:
		switch {
		case a.seconds < b.seconds:
			return -1, true
		case a.seconds > b.seconds:
			return 1, true
		default:
			return 0, true
		}
	case a.kind == KindDrifting && b.kind == KindDrifting && a.space == b.space:
		if a.seq < b.seq {
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

var namespaces atomic.Uint32

// IDGenerator hands out drifting anchors. Each generator draws a
// process-unique namespace on creation, so generators owned by concurrent
// builders never hand out colliding anchors and never need a reset.
// A single generator is not safe for concurrent use.
type IDGenerator struct {
	space uint32
	next  uint64
}

// NewIDGenerator returns a generator with a fresh namespace.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{space: namespaces.Add(1)}
}

// Next returns a new drifting anchor, ordered after every anchor this
// generator produced before.
func (g *IDGenerator) Next() Anchor {
	g.next++
	return Anchor{kind: KindDrifting, space: g.space, seq: g.next}
}

// Issued reports how many anchors the generator has produced.
func (g *IDGenerator) Issued() uint64 { return g.next }
