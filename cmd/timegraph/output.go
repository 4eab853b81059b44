package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timegraph/internal/graphstore"
	"timegraph/internal/services"
	"timegraph/internal/transcript"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatTSV   outputFormat = "tsv"
	formatJSON  outputFormat = "json"
)

// resolveFormat validates the --format flag. An empty value picks a table
// for terminals and TSV for pipes.
func resolveFormat(value string, out io.Writer) (outputFormat, error) {
	switch outputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		if isTerminal(out) {
			return formatTable, nil
		}
		return formatTSV, nil
	case formatTable:
		return formatTable, nil
	case formatTSV:
		return formatTSV, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", services.Wrap(services.ErrValidation, "cli", "format", fmt.Sprintf("unsupported output format %q (want table, tsv or json)", value), nil)
	}
}

var edgeColumns = []tableColumn{
	{header: "#", align: alignRight},
	{header: "From", align: alignRight},
	{header: "To", align: alignRight},
	{header: "Kind"},
	{header: "Text", wrap: true},
	{header: "Confidence", align: alignRight},
}

func writeGraphs(cmd *cobra.Command, graphs []*transcript.Graph, format outputFormat) error {
	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return writeJSON(cmd, graphs)
	case formatTSV:
		for _, g := range graphs {
			for edge := range g.OrderedEdges() {
				row := edgeRow(edge)
				fmt.Fprintf(out, "%s\t%s\t%s\n", g.URI, g.Channel, strings.Join(row[1:], "\t"))
			}
		}
		return nil
	default:
		for i, g := range graphs {
			if i > 0 {
				fmt.Fprintln(out)
			}
			view := tableView{
				title:   fmt.Sprintf("%s (%d edges)", g.Key(), g.Len()),
				columns: edgeColumns,
			}
			words := 0
			for edge := range g.OrderedEdges() {
				row := edgeRow(edge)
				row[0] = strconv.Itoa(len(view.rows) + 1)
				view.rows = append(view.rows, row)
				if !edge.Attrs.Empty() {
					words++
				}
			}
			view.footer = []string{"", "", "", "", fmt.Sprintf("%d with text", words), ""}
			fmt.Fprintln(out, view.render())
		}
		return nil
	}
}

func edgeRow(edge transcript.Edge) []string {
	confidence := ""
	if edge.Attrs.Kind == transcript.AttrSpeech {
		confidence = strconv.FormatFloat(edge.Attrs.Confidence, 'f', 3, 64)
	}
	return []string{
		"",
		edge.From.String(),
		edge.To.String(),
		kindLabel(edge.Attrs.Kind),
		edge.Attrs.Text,
		confidence,
	}
}

func kindLabel(kind transcript.AttrKind) string {
	switch kind {
	case transcript.AttrSpeech:
		return "speech"
	case transcript.AttrSubtitle:
		return "subtitle"
	default:
		return "-"
	}
}

type summaryJSON struct {
	URI           string `json:"uri"`
	Channel       string `json:"channel"`
	Source        string `json:"source,omitempty"`
	Edges         int    `json:"edges"`
	ImportedAt    string `json:"imported_at"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func writeSummaries(cmd *cobra.Command, summaries []graphstore.Summary, format outputFormat) error {
	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		payload := make([]summaryJSON, 0, len(summaries))
		for _, s := range summaries {
			payload = append(payload, summaryJSON{
				URI:           s.URI,
				Channel:       s.Channel,
				Source:        s.Source,
				Edges:         s.Edges,
				ImportedAt:    s.ImportedAt.Format(time.RFC3339),
				CorrelationID: s.CorrelationID,
			})
		}
		return writeJSON(cmd, payload)
	case formatTSV:
		for _, s := range summaries {
			fmt.Fprintf(out, "%s\t%s\t%d\t%s\t%s\n", s.URI, s.Channel, s.Edges, s.Source, s.ImportedAt.Format(time.RFC3339))
		}
		return nil
	default:
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No graphs stored")
			return nil
		}
		view := tableView{columns: []tableColumn{
			{header: "URI"},
			{header: "Channel"},
			{header: "Edges", align: alignRight},
			{header: "Source", wrap: true},
			{header: "Imported"},
		}}
		for _, s := range summaries {
			view.rows = append(view.rows, []string{
				s.URI,
				s.Channel,
				strconv.Itoa(s.Edges),
				s.Source,
				s.ImportedAt.Local().Format("2006-01-02 15:04:05"),
			})
		}
		fmt.Fprintln(out, view.render())
		return nil
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
