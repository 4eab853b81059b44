package main

import (
	"github.com/spf13/cobra"

	"timegraph/internal/loader"
	"timegraph/internal/services"
	"timegraph/internal/transcript"
)

// readerFlags are the per-invocation overrides of the reader configuration.
type readerFlags struct {
	noPunctuation bool
	split         bool
	duration      bool
	parallel      int
}

func (f *readerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noPunctuation, "no-punctuation", false, "Strip punctuation from CTM words")
	cmd.Flags().BoolVar(&f.split, "split", false, "Split subtitle cues into one edge per dialogue line")
	cmd.Flags().BoolVar(&f.duration, "duration", false, "Estimate the timing of split subtitle lines")
	cmd.Flags().IntVar(&f.parallel, "parallel", 0, "Maximum files read at once (0 = number of CPUs)")
}

func (c *commandContext) newLoader(cmd *cobra.Command, flags readerFlags) (*loader.Loader, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := loader.OptionsFromConfig(cfg)
	if cmd.Flags().Changed("no-punctuation") {
		opts.CTM.Punctuation = !flags.noPunctuation
	}
	if cmd.Flags().Changed("split") {
		opts.SRT.Split = flags.split
	}
	if cmd.Flags().Changed("duration") {
		opts.SRT.EstimateDuration = flags.duration
	}
	opts.Parallel = flags.parallel
	return loader.New(opts, logger), nil
}

func newReadCommand(ctx *commandContext) *cobra.Command {
	var flags readerFlags
	var format string
	var uri string
	var channel string

	cmd := &cobra.Command{
		Use:   "read <file>...",
		Short: "Build graphs from CTM or SRT files and print their edges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			l, err := ctx.newLoader(cmd, flags)
			if err != nil {
				return err
			}
			collection, err := l.Load(ctx.runContext(cmd), args...)
			if err != nil {
				return err
			}

			var graphs []*transcript.Graph
			if uri != "" || channel != "" {
				g, err := selectGraph(collection, uri, channel)
				if err != nil {
					return err
				}
				graphs = append(graphs, g)
			} else {
				for _, key := range collection.Keys() {
					g, _ := collection.Lookup(key)
					graphs = append(graphs, g)
				}
			}
			return writeGraphs(cmd, graphs, outFormat)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, tsv or json (default table on a terminal, tsv otherwise)")
	cmd.Flags().StringVar(&uri, "uri", "", "Only print graphs with this uri")
	cmd.Flags().StringVar(&channel, "channel", "", "Only print graphs with this channel")
	return cmd
}

// selectGraph narrows a collection to the one graph matching uri and channel.
func selectGraph(collection *transcript.Collection, uri, channel string) (*transcript.Graph, error) {
	key := transcript.Key{URI: uri, Channel: channel}
	g, err := collection.Find(uri, channel)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "cli", "select", key.String(), err)
	}
	if _, ok := collection.Lookup(g.Key()); !ok {
		return nil, services.Wrap(services.ErrNotFound, "cli", "select", key.String(), nil)
	}
	return g, nil
}
