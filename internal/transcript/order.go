package transcript

import (
	"container/heap"
	"iter"
	"math"
	"slices"
)

// OrderedEdges yields every edge sorted by the chronological position of its
// from anchor. Positions are resolved on a topological walk: anchored nodes
// sit at their own time, drifting nodes inherit the latest position of their
// predecessors. Ties fall back to anchor kind and drifting generation order,
// so the sequence is deterministic.
//
// The node order is computed when iteration starts; the graph must not be
// mutated while the sequence is consumed.
func (g *Graph) OrderedEdges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		order := g.orderedNodes()
		rank := make(map[Anchor]int, len(order))
		for i, node := range order {
			rank[node] = i
		}
		for _, from := range order {
			targets := g.out[from]
			if len(targets) == 0 {
				continue
			}
			tos := make([]Anchor, 0, len(targets))
			for to := range targets {
				tos = append(tos, to)
			}
			slices.SortFunc(tos, func(a, b Anchor) int { return rank[a] - rank[b] })
			for _, to := range tos {
				if !yield(Edge{From: from, To: to, Attrs: targets[to]}) {
					return
				}
			}
		}
	}
}

// Edges collects OrderedEdges.
func (g *Graph) Edges() []Edge {
	return slices.Collect(g.OrderedEdges())
}

// Nodes returns every node in traversal order.
func (g *Graph) Nodes() []Anchor {
	return g.orderedNodes()
}

func (g *Graph) orderedNodes() []Anchor {
	indegree := make(map[Anchor]int, len(g.nodes))
	position := make(map[Anchor]float64, len(g.nodes))
	for node := range g.nodes {
		indegree[node] = len(g.in[node])
		position[node] = math.Inf(-1)
	}

	ready := &nodeQueue{}
	for node, deg := range indegree {
		if deg == 0 {
			heap.Push(ready, queued{anchor: node, position: resolvedPosition(node, position[node])})
		}
	}

	order := make([]Anchor, 0, len(g.nodes))
	for ready.Len() > 0 {
		item := heap.Pop(ready).(queued)
		order = append(order, item.anchor)
		for next := range g.out[item.anchor] {
			if item.position > position[next] {
				position[next] = item.position
			}
			indegree[next]--
			if indegree[next] == 0 {
				heap.Push(ready, queued{anchor: next, position: resolvedPosition(next, position[next])})
			}
		}
	}
	return order
}

// resolvedPosition returns the time of an anchor, or the inherited position
// of a drifting one.
func resolvedPosition(a Anchor, inherited float64) float64 {
	if a.kind == KindDrifting {
		return inherited
	}
	return a.Seconds()
}

type queued struct {
	anchor   Anchor
	position float64
}

type nodeQueue []queued

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.position != b.position {
		return a.position < b.position
	}
	if a.anchor.kind != b.anchor.kind {
		return a.anchor.kind < b.anchor.kind
	}
	if a.anchor.space != b.anchor.space {
		return a.anchor.space < b.anchor.space
	}
	return a.anchor.seq < b.anchor.seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queued)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
