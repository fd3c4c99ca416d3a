package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quidome/mediasort/pkg/organize"
	"github.com/quidome/mediasort/pkg/reconcile"
	"github.com/quidome/mediasort/pkg/relocate"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

var titleCaser = cases.Title(language.Und)

// outcomeLabel turns "already_placed" into "Already Placed".
func outcomeLabel(o relocate.Outcome) string {
	return titleCaser.String(strings.ReplaceAll(string(o), "_", " "))
}

func renderSummary(c organize.Counters) string {
	rows := make([][]string, 0, len(relocate.Outcomes()))
	for _, o := range relocate.Outcomes() {
		n := c.ByOutcome[o]
		if n == 0 {
			continue
		}
		rows = append(rows, []string{outcomeLabel(o), strconv.Itoa(n)})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(c.Found)})
	return renderTable([]string{"Outcome", "Files"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderFailures(results []relocate.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		rows = append(rows, []string{r.Operation.SourcePath, r.Operation.DestinationPath, msg})
	}
	return renderTable([]string{"Source", "Destination", "Error"}, rows, nil)
}

func renderDuplicates(dups []reconcile.Duplicate) string {
	rows := make([][]string, 0, len(dups))
	for _, d := range dups {
		rows = append(rows, []string{d.Name, strconv.Itoa(len(d.Dirs)), strings.Join(d.Dirs, "\n")})
	}
	return renderTable([]string{"Name", "Copies", "Directories"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}

func renderMissing(missing []reconcile.Missing) string {
	rows := make([][]string, 0, len(missing))
	for _, m := range missing {
		rows = append(rows, []string{m.Name, m.Path})
	}
	return renderTable([]string{"Name", "Source Path"}, rows, nil)
}
