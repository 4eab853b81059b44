package ctm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minFields = 6

// Row is one word alignment: "uri channel start duration word confidence [type]".
type Row struct {
	URI        string
	Channel    string
	Start      float64
	Duration   float64
	Word       string
	Confidence float64
	// Type is the optional seventh column ("lex", "frag", ...). It is kept
	// for callers but does not influence the graph.
	Type string
}

// RowError reports a line that cannot be parsed as a CTM row.
type RowError struct {
	Source string
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *RowError) Error() string {
	msg := fmt.Sprintf("%s:%d: %s: %q", e.Source, e.Line, e.Reason, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RowError) Unwrap() error { return e.Err }

// isComment reports whether line is a ";;" comment or blank.
func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, ";;")
}

// ParseRow splits a CTM line into its fields. Reason strings are returned
// in a *RowError without position; the reader fills in Source and Line.
func ParseRow(line string) (Row, error) {
	fields := strings.Fields(line)
	if len(fields) < minFields {
		return Row{}, &RowError{Text: line, Reason: fmt.Sprintf("expected at least %d fields, got %d", minFields, len(fields))}
	}
	start, err := parseSeconds(fields[2])
	if err != nil {
		return Row{}, &RowError{Text: line, Reason: "invalid start time", Err: err}
	}
	duration, err := parseSeconds(fields[3])
	if err != nil {
		return Row{}, &RowError{Text: line, Reason: "invalid duration", Err: err}
	}
	if duration < 0 {
		return Row{}, &RowError{Text: line, Reason: "negative duration"}
	}
	confidence, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return Row{}, &RowError{Text: line, Reason: "invalid confidence", Err: err}
	}
	row := Row{
		URI:        fields[0],
		Channel:    fields[1],
		Start:      start,
		Duration:   duration,
		Word:       fields[4],
		Confidence: confidence,
	}
	if len(fields) > minFields {
		row.Type = fields[6]
	}
	return row, nil
}

func parseSeconds(value string) (float64, error) {
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%s is not a finite number", value)
	}
	return seconds, nil
}

// round3 rounds to millisecond precision. Overlap and equality decisions are
// made on rounded values only.
func round3(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}
