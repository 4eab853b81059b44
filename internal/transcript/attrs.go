package transcript

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AttrKind tags the payload an edge carries.
type AttrKind uint8

const (
	// AttrNone marks bridging and gap edges.
	AttrNone AttrKind = iota
	// AttrSpeech marks CTM word edges (text + confidence).
	AttrSpeech
	// AttrSubtitle marks SRT cue line edges (text only).
	AttrSubtitle
)

// Attrs is the payload of an edge.
type Attrs struct {
	Kind       AttrKind
	Text       string
	Confidence float64
}

// Speech builds the payload of a CTM word edge.
func Speech(word string, confidence float64) Attrs {
	return Attrs{Kind: AttrSpeech, Text: word, Confidence: confidence}
}

// Subtitle builds the payload of a subtitle line edge.
func Subtitle(line string) Attrs {
	return Attrs{Kind: AttrSubtitle, Text: line}
}

// Empty reports whether the edge is a bridging/gap edge.
func (a Attrs) Empty() bool { return a.Kind == AttrNone }

func (a Attrs) String() string {
	switch a.Kind {
	case AttrSpeech:
		return fmt.Sprintf("{speech:%q confidence:%s}", a.Text, strconv.FormatFloat(a.Confidence, 'f', 3, 64))
	case AttrSubtitle:
		return fmt.Sprintf("{subtitle:%q}", a.Text)
	default:
		return "{}"
	}
}

type attrsJSON struct {
	Speech     *string  `json:"speech,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Subtitle   *string  `json:"subtitle,omitempty"`
}

// MarshalJSON encodes bridging edges as {}, word edges as
// {"speech","confidence"} and subtitle edges as {"subtitle"}.
func (a Attrs) MarshalJSON() ([]byte, error) {
	var out attrsJSON
	switch a.Kind {
	case AttrSpeech:
		text, conf := a.Text, a.Confidence
		out.Speech, out.Confidence = &text, &conf
	case AttrSubtitle:
		text := a.Text
		out.Subtitle = &text
	}
	return json.Marshal(out)
}

func (a *Attrs) UnmarshalJSON(data []byte) error {
	var in attrsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch {
	case in.Speech != nil:
		*a = Speech(*in.Speech, 0)
		if in.Confidence != nil {
			a.Confidence = *in.Confidence
		}
	case in.Subtitle != nil:
		*a = Subtitle(*in.Subtitle)
	default:
		*a = Attrs{}
	}
	return nil
}
