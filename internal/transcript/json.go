package transcript

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type edgeJSON struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Attrs Attrs  `json:"attrs"`
}

type graphJSON struct {
	URI     string     `json:"uri"`
	Channel string     `json:"channel"`
	Edges   []edgeJSON `json:"edges"`
}

// MarshalJSON encodes the graph as its ordered edge list. Sentinels are
// written as "-inf"/"+inf", anchored times at full precision and
// drifting anchors as "~<seq>".
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := graphJSON{URI: g.URI, Channel: g.Channel, Edges: []edgeJSON{}}
	for edge := range g.OrderedEdges() {
		out.Edges = append(out.Edges, edgeJSON{
			From:  encodeAnchor(edge.From),
			To:    encodeAnchor(edge.To),
			Attrs: edge.Attrs,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a graph from MarshalJSON output. Drifting anchors
// are re-issued from a fresh generator in order of first appearance.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var in graphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	decoded := NewGraph(in.URI, in.Channel)
	decoder := NewAnchorDecoder()
	for i, edge := range in.Edges {
		from, err := decoder.Decode(edge.From)
		if err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		to, err := decoder.Decode(edge.To)
		if err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		if err := decoded.AddEdge(from, to, edge.Attrs); err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
	}
	*g = *decoded
	return nil
}

func encodeAnchor(a Anchor) string {
	if a.kind == KindAnchored {
		return strconv.FormatFloat(a.seconds, 'f', -1, 64)
	}
	return a.String()
}

// EncodeAnchor returns the textual form used by JSON and the graph store.
// Unlike String it keeps full precision for anchored times.
func EncodeAnchor(a Anchor) string { return encodeAnchor(a) }

// AnchorDecoder maps encoded anchors back to graph nodes, re-issuing
// drifting anchors from its own generator.
type AnchorDecoder struct {
	gen      *IDGenerator
	drifting map[string]Anchor
}

// NewAnchorDecoder returns a decoder with a fresh generator.
func NewAnchorDecoder() *AnchorDecoder {
	return &AnchorDecoder{gen: NewIDGenerator(), drifting: make(map[string]Anchor)}
}

// Decode parses one encoded anchor.
func (d *AnchorDecoder) Decode(value string) (Anchor, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "-inf":
		return Start, nil
	case value == "+inf" || value == "inf":
		return End, nil
	case strings.HasPrefix(value, "~"):
		if _, err := strconv.ParseUint(value[1:], 10, 64); err != nil {
			return Anchor{}, fmt.Errorf("invalid drifting anchor %q", value)
		}
		if a, ok := d.drifting[value]; ok {
			return a, nil
		}
		a := d.gen.Next()
		d.drifting[value] = a
		return a, nil
	default:
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return Anchor{}, fmt.Errorf("invalid anchor %q", value)
		}
		return At(seconds), nil
	}
}
