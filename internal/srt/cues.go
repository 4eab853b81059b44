package srt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Cue is one SubRip block: index, time range and raw (possibly multi-line)
// text.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
	// Line is the 1-based line of the cue's timing line in its source.
	Line int
}

// Issue describes a block that was skipped while parsing.
type Issue struct {
	Line   int
	Reason string
}

// TimestampError reports a timing line that cannot be parsed.
type TimestampError struct {
	Line  int
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("line %d: invalid timestamp %q: %v", e.Line, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// ParseCues reads SubRip blocks separated by blank lines. Blocks without a
// timing line are reported as issues and skipped; a malformed timestamp is an
// error. Input must already be decoded to UTF-8.
func ParseCues(r io.Reader) ([]Cue, []Issue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		cues   []Cue
		issues []Issue
		block  []string
		first  int
		lineNo int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, issue, err := parseBlock(block, first)
		block = block[:0]
		switch {
		case err != nil:
			return err
		case issue != nil:
			issues = append(issues, *issue)
		default:
			cues = append(cues, cue)
		}
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, nil, err
			}
			continue
		}
		if len(block) == 0 {
			first = lineNo
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, nil, err
	}
	return cues, issues, nil
}

func parseBlock(lines []string, first int) (Cue, *Issue, error) {
	// The index line is optional in the wild; the timing line is not.
	timing := 0
	index := 0
	if !strings.Contains(lines[0], "-->") {
		if len(lines) < 2 || !strings.Contains(lines[1], "-->") {
			return Cue{}, &Issue{Line: first, Reason: "block has no timing line"}, nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return Cue{}, &Issue{Line: first, Reason: fmt.Sprintf("invalid cue index %q", lines[0])}, nil
		}
		index = parsed
		timing = 1
	}

	lineNo := first + timing
	parts := strings.SplitN(lines[timing], "-->", 2)
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Cue{}, nil, &TimestampError{Line: lineNo, Value: strings.TrimSpace(parts[0]), Err: err}
	}
	// Position hints ("X1:... Y1:...") may follow the end timestamp.
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return Cue{}, nil, &TimestampError{Line: lineNo, Value: "", Err: fmt.Errorf("missing end timestamp")}
	}
	end, err := ParseTimestamp(endField[0])
	if err != nil {
		return Cue{}, nil, &TimestampError{Line: lineNo, Value: endField[0], Err: err}
	}

	text := lines[timing+1:]
	for i := range text {
		text[i] = strings.TrimSpace(text[i])
	}
	return Cue{
		Index: index,
		Start: start,
		End:   end,
		Text:  strings.Join(text, "\n"),
		Line:  lineNo,
	}, nil, nil
}

// ParseTimestamp converts "HH:MM:SS,mmm" to seconds. A period is accepted as
// the millisecond separator.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("expected HH:MM:SS,mmm")
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS,mmm")
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("non-numeric field")
	}
	if hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("negative field")
	}
	total := (hours*3600+minutes*60+seconds)*1000 + millis
	return float64(total) / 1000, nil
}
