package transcript

import (
	"errors"
	"fmt"
)

var (
	// ErrBackInTime is returned when an edge would point backwards.
	ErrBackInTime = errors.New("edge goes back in time")
	// ErrDuplicateEdge is returned when both endpoints are already connected.
	ErrDuplicateEdge = errors.New("duplicate edge")
	// ErrCycle is returned when an edge would close a cycle.
	ErrCycle = errors.New("edge creates a cycle")
	// ErrNoEdge is returned when removing an edge that does not exist.
	ErrNoEdge = errors.New("no such edge")
)

// ChannelSubtitle is the channel subtitle graphs are stored under.
const ChannelSubtitle = "subtitle"

// Edge is one (from, to, attrs) triple of a graph.
type Edge struct {
	From  Anchor
	To    Anchor
	Attrs Attrs
}

func (e Edge) String() string {
	return fmt.Sprintf("(%s, %s, %s)", e.From, e.To, e.Attrs)
}

// Graph is a directed acyclic graph of anchors. Every graph contains the
// Start and End sentinels; edges always point forward in time.
//
// A Graph is mutated by a single builder while it is constructed and is
// read-only once handed to callers. It is not safe for concurrent mutation.
type Graph struct {
	URI     string
	Channel string

	nodes map[Anchor]struct{}
	out   map[Anchor]map[Anchor]Attrs
	in    map[Anchor]map[Anchor]struct{}
	edges int
}

// NewGraph returns a graph holding only the Start and End sentinels.
func NewGraph(uri, channel string) *Graph {
	g := &Graph{
		URI:     uri,
		Channel: channel,
		nodes:   make(map[Anchor]struct{}),
		out:     make(map[Anchor]map[Anchor]Attrs),
		in:      make(map[Anchor]map[Anchor]struct{}),
	}
	g.nodes[Start] = struct{}{}
	g.nodes[End] = struct{}{}
	return g
}

// Key returns the collection key of the graph.
func (g *Graph) Key() Key { return Key{URI: g.URI, Channel: g.Channel} }

// Len returns the number of edges.
func (g *Graph) Len() int { return g.edges }

// NodeCount returns the number of nodes, sentinels included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// HasNode reports whether the anchor is a node of the graph.
func (g *Graph) HasNode(a Anchor) bool {
	_, ok := g.nodes[a]
	return ok
}

// HasEdge reports whether from is directly connected to to.
func (g *Graph) HasEdge(from, to Anchor) bool {
	_, ok := g.out[from][to]
	return ok
}

// EdgeAttrs returns the payload of the from→to edge.
func (g *Graph) EdgeAttrs(from, to Anchor) (Attrs, bool) {
	attrs, ok := g.out[from][to]
	return attrs, ok
}

// AddEdge connects from to to. Both anchors become nodes if needed.
func (g *Graph) AddEdge(from, to Anchor, attrs Attrs) error {
	if cmp, ok := Compare(from, to); ok && cmp >= 0 {
		return fmt.Errorf("%w: %s -> %s", ErrBackInTime, from, to)
	}
	if g.HasEdge(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, from, to)
	}
	// Paths through drifting anchors are not ordered by time, so a forward
	// edge between comparable anchors can still close a cycle.
	if g.reaches(to, from) {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, from, to)
	}

	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}
	targets, ok := g.out[from]
	if !ok {
		targets = make(map[Anchor]Attrs)
		g.out[from] = targets
	}
	targets[to] = attrs
	sources, ok := g.in[to]
	if !ok {
		sources = make(map[Anchor]struct{})
		g.in[to] = sources
	}
	sources[from] = struct{}{}
	g.edges++
	return nil
}

// RemoveEdge disconnects from and to. Nodes are kept.
func (g *Graph) RemoveEdge(from, to Anchor) error {
	if !g.HasEdge(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrNoEdge, from, to)
	}
	delete(g.out[from], to)
	if len(g.out[from]) == 0 {
		delete(g.out, from)
	}
	delete(g.in[to], from)
	if len(g.in[to]) == 0 {
		delete(g.in, to)
	}
	g.edges--
	return nil
}

// InsertBetween splits the from→to edge at mid: the edge is replaced by
// from→mid carrying before and mid→to carrying after.
func (g *Graph) InsertBetween(from, to, mid Anchor, before, after Attrs) error {
	original, ok := g.EdgeAttrs(from, to)
	if !ok {
		return fmt.Errorf("insert between: %w: %s -> %s", ErrNoEdge, from, to)
	}
	if err := g.RemoveEdge(from, to); err != nil {
		return err
	}
	if err := g.AddEdge(from, mid, before); err != nil {
		g.restore(from, to, original)
		return fmt.Errorf("insert between: %w", err)
	}
	if err := g.AddEdge(mid, to, after); err != nil {
		_ = g.RemoveEdge(from, mid)
		g.restore(from, to, original)
		return fmt.Errorf("insert between: %w", err)
	}
	return nil
}

func (g *Graph) restore(from, to Anchor, attrs Attrs) {
	_ = g.AddEdge(from, to, attrs)
}

// reaches reports whether target can be reached from source.
func (g *Graph) reaches(source, target Anchor) bool {
	if source == target {
		return true
	}
	seen := map[Anchor]struct{}{source: {}}
	stack := []Anchor{source}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range g.out[node] {
			if next == target {
				return true
			}
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			stack = append(stack, next)
		}
	}
	return false
}

// Successors returns the direct successors of a node, in no particular order.
func (g *Graph) Successors(a Anchor) []Anchor {
	targets := g.out[a]
	out := make([]Anchor, 0, len(targets))
	for to := range targets {
		out = append(out, to)
	}
	return out
}

// Complete reports whether the graph was finished: End is reachable from
// Start.
func (g *Graph) Complete() bool {
	return g.reaches(Start, End)
}
