package transcript

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestCompare(t *testing.T) {
	gen := NewIDGenerator()
	d1, d2 := gen.Next(), gen.Next()
	other := NewIDGenerator().Next()

	tests := []struct {
		name   string
		a, b   Anchor
		cmp    int
		wantOK bool
	}{
		{"start before anchored", Start, At(1), -1, true},
		{"end after anchored", End, At(1), 1, true},
		{"start before end", Start, End, -1, true},
		{"start before drifting", Start, d1, -1, true},
		{"drifting before end", d1, End, -1, true},
		{"anchored by time", At(1.5), At(1.2), 1, true},
		{"anchored equal", At(1.5), At(1.5), 0, true},
		{"drifting by generation", d1, d2, -1, true},
		{"drifting across generators", d1, other, 0, false},
		{"drifting vs anchored", d1, At(1), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, ok := Compare(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Compare ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && cmp != tt.cmp {
				t.Fatalf("Compare = %d, want %d", cmp, tt.cmp)
			}
		})
	}
}

func TestAnchorIdentity(t *testing.T) {
	if At(1.74) != At(1.74) {
		t.Fatal("anchored anchors with equal time must be the same node")
	}
	if At(0) != At(math.Copysign(0, -1)) {
		t.Fatal("negative zero must map to the zero anchor")
	}
	gen := NewIDGenerator()
	if gen.Next() == gen.Next() {
		t.Fatal("drifting anchors must be unique")
	}
	if got := Start.String(); got != "-inf" {
		t.Fatalf("Start.String() = %q", got)
	}
	if got := End.String(); got != "+inf" {
		t.Fatalf("End.String() = %q", got)
	}
	if got := At(1.4).String(); got != "1.400" {
		t.Fatalf("At(1.4).String() = %q", got)
	}
	if !math.IsInf(Start.Seconds(), -1) || !math.IsInf(End.Seconds(), 1) {
		t.Fatal("sentinels must render as infinities")
	}
}

func TestAddEdgeRejectsInvalidEdges(t *testing.T) {
	g := NewGraph("uri", "1")
	if err := g.AddEdge(At(2), At(1), Attrs{}); !errors.Is(err, ErrBackInTime) {
		t.Fatalf("back in time: err = %v", err)
	}
	if err := g.AddEdge(At(1), At(1), Attrs{}); !errors.Is(err, ErrBackInTime) {
		t.Fatalf("self loop: err = %v", err)
	}
	if err := g.AddEdge(At(1), At(2), Speech("hi", 0.5)); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(At(1), At(2), Attrs{}); !errors.Is(err, ErrDuplicateEdge) {
		t.Fatalf("duplicate: err = %v", err)
	}

	gen := NewIDGenerator()
	d := gen.Next()
	if err := g.AddEdge(At(2), d, Attrs{}); err != nil {
		t.Fatalf("AddEdge to drifting: %v", err)
	}
	if err := g.AddEdge(d, At(1), Attrs{}); !errors.Is(err, ErrCycle) {
		t.Fatalf("cycle: err = %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2", g.Len())
	}
}

func TestRemoveEdge(t *testing.T) {
	g := NewGraph("uri", "1")
	if err := g.RemoveEdge(At(1), At(2)); !errors.Is(err, ErrNoEdge) {
		t.Fatalf("remove missing: err = %v", err)
	}
	if err := g.AddEdge(At(1), At(2), Attrs{}); err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveEdge(At(1), At(2)); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	if g.HasEdge(At(1), At(2)) || g.Len() != 0 {
		t.Fatal("edge still present after removal")
	}
	if !g.HasNode(At(1)) {
		t.Fatal("nodes should survive edge removal")
	}
}

func TestInsertBetween(t *testing.T) {
	g := NewGraph("uri", "1")
	word := Speech("So", 0.99)
	if err := g.AddEdge(At(1), At(2), word); err != nil {
		t.Fatal(err)
	}
	mid := NewIDGenerator().Next()
	if err := g.InsertBetween(At(1), At(2), mid, word, Attrs{}); err != nil {
		t.Fatalf("InsertBetween: %v", err)
	}
	if g.HasEdge(At(1), At(2)) {
		t.Fatal("original edge should be gone")
	}
	if attrs, ok := g.EdgeAttrs(At(1), mid); !ok || attrs != word {
		t.Fatalf("head edge = %v, %v", attrs, ok)
	}
	if attrs, ok := g.EdgeAttrs(mid, At(2)); !ok || !attrs.Empty() {
		t.Fatalf("tail edge = %v, %v", attrs, ok)
	}
	if err := g.InsertBetween(At(5), At(6), mid, Attrs{}, Attrs{}); !errors.Is(err, ErrNoEdge) {
		t.Fatalf("missing edge: err = %v", err)
	}
}

func TestOrderedEdgesResolvesDriftingPositions(t *testing.T) {
	g := NewGraph("uri", "1")
	gen := NewIDGenerator()
	d1, d2 := gen.Next(), gen.Next()

	mustAdd(t, g, At(3), End, Attrs{})
	mustAdd(t, g, d2, At(3), Attrs{})
	mustAdd(t, g, d1, d2, Speech("b", 1))
	mustAdd(t, g, At(1), d1, Speech("a", 1))
	mustAdd(t, g, Start, At(1), Attrs{})

	edges := g.Edges()
	want := []struct{ from, to Anchor }{
		{Start, At(1)},
		{At(1), d1},
		{d1, d2},
		{d2, At(3)},
		{At(3), End},
	}
	if len(edges) != len(want) {
		t.Fatalf("got %d edges, want %d: %v", len(edges), len(want), edges)
	}
	for i, w := range want {
		if edges[i].From != w.from || edges[i].To != w.to {
			t.Fatalf("edge %d = %v, want (%s, %s)", i, edges[i], w.from, w.to)
		}
	}
	if !g.Complete() {
		t.Fatal("graph should be complete")
	}
}

func TestOrderedEdgesStopsEarly(t *testing.T) {
	g := NewGraph("uri", "1")
	mustAdd(t, g, Start, At(1), Attrs{})
	mustAdd(t, g, At(1), At(2), Attrs{})
	mustAdd(t, g, At(2), End, Attrs{})

	count := 0
	for range g.OrderedEdges() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := NewGraph("uri1", "1")
	gen := NewIDGenerator()
	d := gen.Next()
	mustAdd(t, g, Start, At(1.41), Attrs{})
	mustAdd(t, g, At(1.41), d, Speech("So", 0.99))
	mustAdd(t, g, d, At(1.63), Subtitle("line"))
	mustAdd(t, g, At(1.63), End, Attrs{})

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Graph
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.URI != "uri1" || decoded.Channel != "1" {
		t.Fatalf("key = %v", decoded.Key())
	}
	got, want := decoded.Edges(), g.Edges()
	if len(got) != len(want) {
		t.Fatalf("edge count %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Attrs != want[i].Attrs || got[i].From.Kind() != want[i].From.Kind() || got[i].To.Kind() != want[i].To.Kind() {
			t.Fatalf("edge %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAttrsJSON(t *testing.T) {
	tests := []struct {
		attrs Attrs
		want  string
	}{
		{Attrs{}, `{}`},
		{Speech("So", 0.99), `{"speech":"So","confidence":0.99}`},
		{Subtitle("hello"), `{"subtitle":"hello"}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.attrs)
		if err != nil {
			t.Fatalf("marshal %v: %v", tt.attrs, err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal %v = %s, want %s", tt.attrs, data, tt.want)
		}
	}
}

func mustAdd(t *testing.T, g *Graph, from, to Anchor, attrs Attrs) {
	t.Helper()
	if err := g.AddEdge(from, to, attrs); err != nil {
		t.Fatalf("AddEdge(%s, %s): %v", from, to, err)
	}
}
