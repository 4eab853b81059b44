package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// textColumnWidth caps word and subtitle columns; longer cue lines wrap.
const textColumnWidth = 60

// tableColumn describes one rendered column.
type tableColumn struct {
	header string
	align  columnAlignment
	wrap   bool
}

type tableView struct {
	title   string
	columns []tableColumn
	rows    [][]string
	footer  []string
}

func (v tableView) render() string {
	count := len(v.columns)
	if count == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if v.title != "" {
		tw.SetTitle(v.title)
	}

	tw.AppendHeader(v.toRow(nil, func(i int) string { return v.columns[i].header }))
	for _, row := range v.rows {
		tw.AppendRow(v.toRow(row, nil))
	}
	if len(v.footer) > 0 {
		tw.AppendFooter(v.toRow(v.footer, nil))
	}

	configs := make([]table.ColumnConfig, 0, count)
	for i, column := range v.columns {
		cfg := table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
			AlignFooter: text.AlignLeft,
		}
		if column.align == alignRight {
			cfg.Align = text.AlignRight
			cfg.AlignFooter = text.AlignRight
		}
		if column.wrap {
			cfg.WidthMax = textColumnWidth
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// toRow pads or truncates cells to the column count. value, when set,
// supplies cells by index instead.
func (v tableView) toRow(cells []string, value func(int) string) table.Row {
	row := make(table.Row, len(v.columns))
	for i := range row {
		switch {
		case value != nil:
			row[i] = value(i)
		case i < len(cells):
			row[i] = cells[i]
		default:
			row[i] = ""
		}
	}
	return row
}
