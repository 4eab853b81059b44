package srt

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"timegraph/internal/fileutil"
	"timegraph/internal/logging"
	"timegraph/internal/services"
	"timegraph/internal/textutil"
	"timegraph/internal/transcript"
)

// Reader reads SubRip files into transcription graphs. A Reader holds no
// per-read state and may be shared between goroutines.
type Reader struct {
	opts   Options
	logger *slog.Logger
}

// NewReader constructs an SRT reader.
func NewReader(opts Options, logger *slog.Logger) *Reader {
	return &Reader{opts: opts, logger: logging.NewComponentLogger(logger, "srt")}
}

// Read parses the subtitle file at path. The graph is keyed by
// (Options.URI or the file stem, "subtitle").
func (r *Reader) Read(ctx context.Context, path string) (*transcript.Collection, error) {
	file, err := fileutil.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "srt", "open", path, err)
		}
		return nil, services.Wrap(services.ErrTransient, "srt", "open", path, err)
	}
	defer file.Close()
	return r.ReadFrom(ctx, file, path)
}

// ReadFrom parses subtitles from src. source names the input in logs and is
// the fallback for the URI.
func (r *Reader) ReadFrom(ctx context.Context, src io.Reader, source string) (*transcript.Collection, error) {
	ctx = services.WithSource(ctx, source)
	logger := logging.WithContext(ctx, r.logger)
	began := time.Now()

	decoded, err := textutil.NewReader(src, r.opts.Encoding)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "srt", "decode", source, err)
	}
	cues, issues, err := ParseCues(decoded)
	if err != nil {
		var tsErr *TimestampError
		if errors.As(err, &tsErr) {
			return nil, services.Wrap(services.ErrValidation, "srt", "parse cue", source, err)
		}
		return nil, services.Wrap(services.ErrTransient, "srt", "read", source, err)
	}
	for _, issue := range issues {
		logging.WarnWithContext(logger, "subtitle block skipped", "malformed_block",
			logging.Int(logging.FieldLine, issue.Line),
			logging.String("reason", issue.Reason),
			logging.String(logging.FieldImpact, "block text missing from graph"),
		)
	}

	uri := r.opts.URI
	if uri == "" {
		uri = fileutil.Stem(source)
	}
	builder := NewBuilder(uri, r.opts, logger)
	for _, cue := range cues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := builder.Add(cue); err != nil {
			return nil, err
		}
	}
	graph := builder.Finish()

	collection := transcript.NewCollection()
	collection.Add(graph)
	logger.Info("srt read",
		logging.String(logging.FieldURI, uri),
		logging.Int("cues", builder.Cues()),
		logging.Int("edges", graph.Len()),
		logging.Int("warnings", builder.Warnings()+len(issues)),
		logging.Duration("elapsed", time.Since(began)),
	)
	return collection, nil
}
