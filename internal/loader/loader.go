package loader

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"timegraph/internal/config"
	"timegraph/internal/ctm"
	"timegraph/internal/fileutil"
	"timegraph/internal/logging"
	"timegraph/internal/services"
	"timegraph/internal/srt"
	"timegraph/internal/transcript"
)

// Format identifies a transcript file format.
type Format string

const (
	FormatCTM Format = "ctm"
	FormatSRT Format = "srt"
)

// FormatOf picks the format from the file extension, looking through a
// trailing ".gz".
func FormatOf(path string) (Format, error) {
	switch fileutil.Ext(path) {
	case ".ctm":
		return FormatCTM, nil
	case ".srt":
		return FormatSRT, nil
	default:
		return "", services.Wrap(services.ErrValidation, "loader", "detect format", fmt.Sprintf("unsupported file %s (want .ctm, .ctm.gz or .srt)", path), nil)
	}
}

// Options configures the readers used by a Loader.
type Options struct {
	CTM ctm.Options
	SRT srt.Options
	// Parallel bounds the number of files read at once. Zero means
	// GOMAXPROCS.
	Parallel int
}

// OptionsFromConfig maps configuration onto reader options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Options{
		CTM: ctm.Options{
			Punctuation: cfg.CTM.Punctuation,
			Encoding:    cfg.CTM.Encoding,
		},
		SRT: srt.Options{
			Split:            cfg.SRT.Split,
			EstimateDuration: cfg.SRT.EstimateDuration,
			Encoding:         cfg.SRT.Encoding,
		},
	}
}

// Loader reads transcript files of mixed formats into one collection.
type Loader struct {
	ctm      *ctm.Reader
	srt      *srt.Reader
	parallel int
	logger   *slog.Logger
}

// New constructs a Loader.
func New(opts Options, logger *slog.Logger) *Loader {
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	return &Loader{
		ctm:      ctm.NewReader(opts.CTM, logger),
		srt:      srt.NewReader(opts.SRT, logger),
		parallel: parallel,
		logger:   logging.NewComponentLogger(logger, "loader"),
	}
}

// ReadFile reads a single file with the reader matching its extension.
func (l *Loader) ReadFile(ctx context.Context, path string) (*transcript.Collection, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSRT:
		return l.srt.Read(ctx, path)
	default:
		return l.ctm.Read(ctx, path)
	}
}

// Load reads every path concurrently and merges the results. Each file gets
// its own builders, so concurrent reads never share drifting anchors. Two
// files producing the same (uri, channel) is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*transcript.Collection, error) {
	for _, path := range paths {
		if _, err := FormatOf(path); err != nil {
			return nil, err
		}
	}

	results := make([]*transcript.Collection, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallel)
	for i, path := range paths {
		g.Go(func() error {
			collection, err := l.ReadFile(gCtx, path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			results[i] = collection
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := transcript.NewCollection()
	for i, collection := range results {
		if err := merged.Merge(collection); err != nil {
			return nil, services.Wrap(services.ErrValidation, "loader", "merge", paths[i], err)
		}
	}
	l.logger.Debug("files loaded",
		logging.Int("files", len(paths)),
		logging.Int("graphs", merged.Len()),
	)
	return merged, nil
}
