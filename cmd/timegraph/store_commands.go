package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"timegraph/internal/graphstore"
	"timegraph/internal/logging"
	"timegraph/internal/transcript"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var flags readerFlags

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Build graphs from CTM or SRT files and save them to the graph store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.newLoader(cmd, flags)
			if err != nil {
				return err
			}
			runCtx := ctx.runContext(cmd)
			collection, err := l.Load(runCtx, args...)
			if err != nil {
				return err
			}

			graphs := make([]*transcript.Graph, 0, collection.Len())
			for _, key := range collection.Keys() {
				g, _ := collection.Lookup(key)
				graphs = append(graphs, g)
			}

			return ctx.withStore(func(store *graphstore.Store) error {
				source := strings.Join(args, ",")
				if err := store.Save(runCtx, source, ctx.correlationID, graphs...); err != nil {
					return err
				}
				logger, _ := ctx.ensureLogger()
				logging.WithContext(runCtx, logging.NewComponentLogger(logger, "cli")).Info(
					"graphs imported",
					logging.Int("graphs", len(graphs)),
					logging.String("store", store.Path()),
				)
				out := cmd.OutOrStdout()
				for _, g := range graphs {
					fmt.Fprintf(out, "Imported %s (%d edges)\n", g.Key(), g.Len())
				}
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <uri> [channel]",
		Short: "Print the edges of a stored graph",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			var channel string
			if len(args) > 1 {
				channel = args[1]
			}
			return ctx.withStore(func(store *graphstore.Store) error {
				g, err := store.Find(ctx.runContext(cmd), args[0], channel)
				if err != nil {
					return err
				}
				return writeGraphs(cmd, []*transcript.Graph{g}, outFormat)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, tsv or json")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List graphs in the graph store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *graphstore.Store) error {
				summaries, err := store.List(ctx.runContext(cmd))
				if err != nil {
					return err
				}
				return writeSummaries(cmd, summaries, outFormat)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, tsv or json")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uri> <channel>",
		Short: "Remove a graph from the graph store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *graphstore.Store) error {
				if err := store.Delete(ctx.runContext(cmd), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", transcript.Key{URI: args[0], Channel: args[1]})
				return nil
			})
		},
	}
}
