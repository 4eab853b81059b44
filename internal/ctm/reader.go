package ctm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
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

const maxLineBytes = 1 << 20

// Options controls how CTM input is interpreted.
type Options struct {
	// Punctuation keeps punctuation marks in words. When false they are
	// stripped and rows whose word becomes empty are skipped.
	Punctuation bool
	// Encoding is the charset of the input (WHATWG label). Empty means UTF-8.
	Encoding string
}

// DefaultOptions keeps punctuation and reads UTF-8.
func DefaultOptions() Options {
	return Options{Punctuation: true, Encoding: "utf-8"}
}

// Reader reads CTM files into transcription graphs, one per (uri, channel).
// A Reader holds no per-read state and may be shared between goroutines.
type Reader struct {
	opts   Options
	logger *slog.Logger
}

// NewReader constructs a CTM reader.
func NewReader(opts Options, logger *slog.Logger) *Reader {
	return &Reader{opts: opts, logger: logging.NewComponentLogger(logger, "ctm")}
}

// Read parses the CTM file at path. Gzip-compressed files are accepted.
func (r *Reader) Read(ctx context.Context, path string) (*transcript.Collection, error) {
	file, err := fileutil.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "ctm", "open", path, err)
		}
		return nil, services.Wrap(services.ErrTransient, "ctm", "open", path, err)
	}
	defer file.Close()
	return r.ReadFrom(ctx, file, path)
}

// ReadFrom parses CTM rows from src. source names the input in errors and
// logs.
func (r *Reader) ReadFrom(ctx context.Context, src io.Reader, source string) (*transcript.Collection, error) {
	ctx = services.WithSource(ctx, source)
	logger := logging.WithContext(ctx, r.logger)
	began := time.Now()

	decoded, err := textutil.NewReader(src, r.opts.Encoding)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ctm", "decode", source, err)
	}

	builders := make(map[transcript.Key]*Builder)
	var order []transcript.Key
	skipped := 0

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		line := scanner.Text()
		if isComment(line) {
			continue
		}
		row, err := ParseRow(line)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				rowErr.Source = source
				rowErr.Line = lineNo
			}
			return nil, services.Wrap(services.ErrValidation, "ctm", "parse row", "", err)
		}

		word := row.Word
		if !r.opts.Punctuation {
			word = textutil.StripPunctuation(word)
		}
		if word == "" {
			skipped++
			continue
		}

		key := transcript.Key{URI: row.URI, Channel: row.Channel}
		builder, ok := builders[key]
		if !ok {
			builder = NewBuilder(row.URI, row.Channel)
			builders[key] = builder
			order = append(order, key)
		}
		if err := builder.Add(word, row.Start, row.Duration, row.Confidence); err != nil {
			return nil, fmt.Errorf("ctm %s:%d: %w", source, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "ctm", "read", source, err)
	}

	collection := transcript.NewCollection()
	for _, key := range order {
		builder := builders[key]
		graph := builder.Finish()
		collection.Add(graph)
		logger.Debug("graph built",
			logging.String(logging.FieldURI, key.URI),
			logging.String(logging.FieldChannel, key.Channel),
			logging.Int("words", builder.Words()),
			logging.Int("edges", graph.Len()),
		)
	}
	logger.Info("ctm read",
		logging.Int("lines", lineNo),
		logging.Int("graphs", collection.Len()),
		logging.Int("skipped_words", skipped),
		logging.Duration("elapsed", time.Since(began)),
	)
	return collection, nil
}
