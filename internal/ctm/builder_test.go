package ctm

import (
	"errors"
	"math"
	"testing"

	"timegraph/internal/transcript"
)

type edgeWant struct {
	from, to float64
	attrs    transcript.Attrs
}

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

func assertAnchoredEdges(t *testing.T, g *transcript.Graph, want []edgeWant) {
	t.Helper()
	got := g.Edges()
	if len(got) != len(want) {
		for _, e := range got {
			t.Logf("got %s", e)
		}
		t.Fatalf("edge count = %d, want %d", len(got), len(want))
	}
	for i, e := range got {
		w := want[i]
		if e.From.Seconds() != w.from || e.To.Seconds() != w.to || e.Attrs != w.attrs {
			t.Fatalf("edge %d = %s, want (%.3f, %.3f, %s)", i, e, w.from, w.to, w.attrs)
		}
	}
}

func TestBuilderSequentialWords(t *testing.T) {
	b := NewBuilder("uri1", "1")
	rows := []struct {
		word                   string
		start, dur, confidence float64
	}{
		{"So", 1.410, 0.220, 0.990},
		{"if", 1.630, 0.040, 0.100},
		{"a", 1.670, 0.070, 0.100},
		{"photon", 1.830, 0.420, 0.990},
	}
	for _, r := range rows {
		if err := b.Add(r.word, r.start, r.dur, r.confidence); err != nil {
			t.Fatalf("Add(%s): %v", r.word, err)
		}
	}
	g := b.Finish()
	assertAnchoredEdges(t, g, []edgeWant{
		{negInf, 1.41, transcript.Attrs{}},
		{1.41, 1.63, transcript.Speech("So", 0.99)},
		{1.63, 1.67, transcript.Speech("if", 0.1)},
		{1.67, 1.74, transcript.Speech("a", 0.1)},
		{1.74, 1.83, transcript.Attrs{}},
		{1.83, 2.25, transcript.Speech("photon", 0.99)},
		{2.25, posInf, transcript.Attrs{}},
	})
	if !g.Complete() {
		t.Fatal("finished graph should connect Start to End")
	}
}

func TestBuilderSplicesZeroDurationCorrection(t *testing.T) {
	b := NewBuilder("u", "A")
	mustAddWord(t, b, "hello", 1.0, 0.5, 0.9)
	mustAddWord(t, b, "uh", 1.2, 0, 0.4)
	g := b.Finish()

	a, end := transcript.At(1.0), transcript.At(1.5)
	if g.HasEdge(a, end) {
		t.Fatal("original edge should be replaced by the splice")
	}

	edges := g.Edges()
	// Start→1.0, 1.0→d1 hello, d1→d2 uh, d2→1.5, 1.5→End
	if len(edges) != 5 {
		for _, e := range edges {
			t.Logf("%s", e)
		}
		t.Fatalf("edge count = %d, want 5", len(edges))
	}
	first, second, closing := edges[1], edges[2], edges[3]
	if first.From != a || !first.To.IsDrifting() || first.Attrs != transcript.Speech("hello", 0.9) {
		t.Fatalf("first splice edge = %s", first)
	}
	if second.From != first.To || !second.To.IsDrifting() || second.Attrs != transcript.Speech("uh", 0.4) {
		t.Fatalf("second splice edge = %s", second)
	}
	if closing.From != second.To || closing.To != end || !closing.Attrs.Empty() {
		t.Fatalf("closing splice edge = %s", closing)
	}
	if edges[4].From != end || edges[4].To != transcript.End {
		t.Fatalf("final edge = %s", edges[4])
	}
}

func TestBuilderChainsRepeatedCorrections(t *testing.T) {
	b := NewBuilder("u", "A")
	mustAddWord(t, b, "hello", 1.0, 0.5, 0.9)
	mustAddWord(t, b, "uh", 1.2, 0, 0.4)
	mustAddWord(t, b, "um", 1.3, 0, 0.3)
	mustAddWord(t, b, "world", 1.6, 0.2, 0.8)
	g := b.Finish()

	var words []string
	for e := range g.OrderedEdges() {
		if e.Attrs.Kind == transcript.AttrSpeech {
			words = append(words, e.Attrs.Text)
		}
	}
	want := []string{"hello", "uh", "um", "world"}
	if len(words) != len(want) {
		t.Fatalf("words = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("words = %v, want %v", words, want)
		}
	}

	// Only the last correction's anchor links back to the fixed end.
	end := transcript.At(1.5)
	var into []transcript.Edge
	for _, e := range g.Edges() {
		if e.To == end {
			into = append(into, e)
		}
	}
	if len(into) != 1 || !into[0].From.IsDrifting() || !into[0].Attrs.Empty() {
		t.Fatalf("edges into 1.5 = %v", into)
	}
	if !g.HasEdge(end, transcript.At(1.6)) {
		t.Fatal("expected bridge 1.5 -> 1.6 after corrections")
	}
}

func TestBuilderClampsOverlap(t *testing.T) {
	b := NewBuilder("u", "A")
	mustAddWord(t, b, "one", 1.0, 0.5, 1)
	mustAddWord(t, b, "two", 1.3, 0.5, 1)
	g := b.Finish()
	assertAnchoredEdges(t, g, []edgeWant{
		{negInf, 1.0, transcript.Attrs{}},
		{1.0, 1.5, transcript.Speech("one", 1)},
		{1.5, 1.8, transcript.Speech("two", 1)},
		{1.8, posInf, transcript.Attrs{}},
	})
}

func TestBuilderSwallowedOverlapBecomesCorrection(t *testing.T) {
	b := NewBuilder("u", "A")
	mustAddWord(t, b, "long", 1.0, 1.0, 1)
	mustAddWord(t, b, "inside", 1.2, 0.3, 0.5)
	g := b.Finish()

	if g.HasEdge(transcript.At(1.0), transcript.At(2.0)) {
		t.Fatal("swallowed word should splice the previous edge")
	}
	for _, e := range g.Edges() {
		if cmp, ok := transcript.Compare(e.From, e.To); ok && cmp >= 0 {
			t.Fatalf("back-in-time edge %s", e)
		}
	}
	if !g.Complete() {
		t.Fatal("graph should be complete")
	}
}

func TestBuilderLeadingCorrectionWithoutPendingArc(t *testing.T) {
	b := NewBuilder("u", "A")
	mustAddWord(t, b, "oh", 0.5, 0, 0.2)
	mustAddWord(t, b, "yes", 1.0, 0.5, 0.9)
	g := b.Finish()

	edges := g.Edges()
	if len(edges) != 4 {
		for _, e := range edges {
			t.Logf("%s", e)
		}
		t.Fatalf("edge count = %d, want 4", len(edges))
	}
	if edges[0].From != transcript.Start || !edges[0].To.IsDrifting() || edges[0].Attrs != transcript.Speech("oh", 0.2) {
		t.Fatalf("leading correction edge = %s", edges[0])
	}
	if edges[1].From != edges[0].To || edges[1].To != transcript.At(1.0) || !edges[1].Attrs.Empty() {
		t.Fatalf("bridge from drifting anchor = %s", edges[1])
	}
}

func TestBuilderRoundsBeforeComparing(t *testing.T) {
	b := NewBuilder("u", "A")
	mustAddWord(t, b, "x", 1.0004, 0.4996, 1)
	// A duration of 0.0004 rounds to zero.
	mustAddWord(t, b, "y", 1.5, 0.0004, 1)
	g := b.Finish()
	if g.HasEdge(transcript.At(1.0), transcript.At(1.5)) {
		t.Fatal("zero-duration row after rounding should splice the previous word")
	}
}

func TestBuilderFinishIsIdempotent(t *testing.T) {
	b := NewBuilder("u", "A")
	mustAddWord(t, b, "x", 1, 1, 1)
	g := b.Finish()
	if b.Finish() != g {
		t.Fatal("Finish should return the same graph")
	}
	if err := b.Add("late", 3, 1, 1); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
}

func TestBuilderEmptyInput(t *testing.T) {
	g := NewBuilder("u", "A").Finish()
	edges := g.Edges()
	if len(edges) != 1 || edges[0].From != transcript.Start || edges[0].To != transcript.End {
		t.Fatalf("edges = %v", edges)
	}
}

func mustAddWord(t *testing.T, b *Builder, word string, start, dur, conf float64) {
	t.Helper()
	if err := b.Add(word, start, dur, conf); err != nil {
		t.Fatalf("Add(%s): %v", word, err)
	}
}
