package srt

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"timegraph/internal/logging"
	"timegraph/internal/textutil"
	"timegraph/internal/transcript"
)

// speakerTurn separates dialogue lines of different speakers inside a cue.
const speakerTurn = "\n-"

// Options controls how cues are turned into edges.
type Options struct {
	// Split breaks a cue into one line per speaker turn.
	Split bool
	// EstimateDuration spreads a cue's time range over its lines in
	// proportion to their length. Without it, every line but the last ends
	// at a drifting anchor.
	EstimateDuration bool
	// Encoding is the charset of the input (WHATWG label). Empty means UTF-8.
	Encoding string
	// URI overrides the resource identifier. Empty means the file stem.
	URI string
}

type segment struct {
	text     string
	from, to transcript.Anchor
}

// Builder turns subtitle cues into a transcription graph keyed by
// (uri, "subtitle"). It is not safe for concurrent use.
type Builder struct {
	opts     Options
	graph    *transcript.Graph
	ids      *transcript.IDGenerator
	logger   *slog.Logger
	prevEnd  transcript.Anchor
	cues     int
	warnings int
	finished bool
}

// NewBuilder returns a builder for the subtitles of uri.
func NewBuilder(uri string, opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		opts:    opts,
		graph:   transcript.NewGraph(uri, transcript.ChannelSubtitle),
		ids:     transcript.NewIDGenerator(),
		logger:  logger,
		prevEnd: transcript.Start,
	}
}

// ErrFinished is returned when a cue is added to a finished builder.
var ErrFinished = errors.New("builder already finished")

// Add consumes one cue. Cues are expected in chronological order; a cue that
// starts before the previous one ended is logged and kept as given.
func (b *Builder) Add(cue Cue) error {
	if b.finished {
		return ErrFinished
	}
	if cue.End <= cue.Start {
		b.warn("empty cue skipped", "empty_cue", cue, "cue ignored")
		return nil
	}
	b.cues++

	start := transcript.At(cue.Start)
	end := transcript.At(cue.End)
	cmp, _ := transcript.Compare(start, b.prevEnd)
	switch {
	case cmp > 0:
		b.add(b.prevEnd, start, transcript.Attrs{}, cue)
	case cmp < 0:
		b.warn("non-chronological subtitles", "non_chronological_cue", cue, "cue kept without gap edge")
	}

	for _, seg := range b.segments(b.lines(cue.Text), start, end) {
		b.add(seg.from, seg.to, transcript.Subtitle(seg.text), cue)
	}
	b.prevEnd = end
	return nil
}

// Finish closes the graph with an edge to End and returns it.
func (b *Builder) Finish() *transcript.Graph {
	if !b.finished {
		if err := b.graph.AddEdge(b.prevEnd, transcript.End, transcript.Attrs{}); err != nil {
			panic(fmt.Sprintf("srt builder %s: %v", b.graph.Key(), err))
		}
		b.finished = true
	}
	return b.graph
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *transcript.Graph { return b.graph }

// Cues returns the number of cues added to the graph.
func (b *Builder) Cues() int { return b.cues }

// Warnings returns the number of warnings logged so far.
func (b *Builder) Warnings() int { return b.warnings }

// lines returns the dialogue lines of a cue, each joined onto one line.
func (b *Builder) lines(text string) []string {
	pieces := []string{text}
	if b.opts.Split {
		pieces = strings.Split(text, speakerTurn)
	}
	lines := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		lines = append(lines, textutil.JoinLines(strings.Split(piece, "\n")))
	}
	return lines
}

func (b *Builder) segments(lines []string, start, end transcript.Anchor) []segment {
	segs := make([]segment, len(lines))
	last := len(lines) - 1
	from := start

	if b.opts.EstimateDuration {
		lengths := make([]int, len(lines))
		total := 0
		for i, line := range lines {
			lengths[i] = utf8.RuneCountInString(line) + 1
			total += lengths[i]
		}
		begin, span := start.Seconds(), end.Seconds()-start.Seconds()
		cumulative := 0
		for i, line := range lines {
			cumulative += lengths[i]
			to := end
			if i < last {
				to = transcript.At(begin + span*float64(cumulative)/float64(total))
				if !strictlyBetween(from, to, end) {
					// Too short to subdivide at float precision.
					to = b.ids.Next()
				}
			}
			segs[i] = segment{text: line, from: from, to: to}
			from = to
		}
		return segs
	}

	for i, line := range lines {
		to := end
		if i < last {
			to = b.ids.Next()
		}
		segs[i] = segment{text: line, from: from, to: to}
		from = to
	}
	return segs
}

func strictlyBetween(lo, mid, hi transcript.Anchor) bool {
	if lo.IsDrifting() {
		cmp, _ := transcript.Compare(mid, hi)
		return cmp < 0
	}
	low, _ := transcript.Compare(lo, mid)
	high, _ := transcript.Compare(mid, hi)
	return low < 0 && high < 0
}

// add inserts an edge. Overlapping cues can repeat an existing edge; those
// are skipped with a warning. Any other failure is a builder bug.
func (b *Builder) add(from, to transcript.Anchor, attrs transcript.Attrs, cue Cue) {
	err := b.graph.AddEdge(from, to, attrs)
	switch {
	case err == nil:
	case errors.Is(err, transcript.ErrDuplicateEdge):
		b.warn("duplicate subtitle edge skipped", "duplicate_edge", cue, "repeated cue text dropped")
	default:
		panic(fmt.Sprintf("srt builder %s: %v", b.graph.Key(), err))
	}
}

func (b *Builder) warn(msg, event string, cue Cue, impact string) {
	b.warnings++
	logging.WarnWithContext(b.logger, msg, event,
		logging.Int(logging.FieldLine, cue.Line),
		logging.Int("cue_index", cue.Index),
		logging.Float64("cue_start", cue.Start),
		logging.Float64("cue_end", cue.End),
		logging.String(logging.FieldImpact, impact),
		logging.String(logging.FieldErrorHint, "check cue timing in the subtitle file"),
	)
}
