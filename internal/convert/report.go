package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subocr/internal/ocr"
	"subocr/internal/srt"
)

// RenderFailures writes a table of failed subtitles, one row per item in
// index order. Cancelled items are summarised in a single footer row.
func RenderFailures(w io.Writer, batch *ocr.BatchResult) {
	if batch == nil || batch.Failed() == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "Span", "Kind", "Cause"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 4, WidthMax: 72},
	})

	cancelled := 0
	for _, recErr := range batch.SortedErrors() {
		if recErr.Kind == ocr.KindCancelled {
			cancelled++
			continue
		}
		tw.AppendRow(table.Row{
			recErr.Index + 1,
			srt.FormatTimestamp(recErr.Start) + " → " + srt.FormatTimestamp(recErr.End),
			string(recErr.Kind),
			causeSummary(recErr.Cause),
		})
	}
	if cancelled > 0 {
		tw.AppendFooter(table.Row{"", "", string(ocr.KindCancelled), fmt.Sprintf("%d subtitles not attempted", cancelled)})
	}
	tw.Render()
}

// causeSummary flattens an error chain onto one line.
func causeSummary(err error) string {
	if err == nil {
		return ""
	}
	chain := ocr.FormatChain(err)
	return strings.ReplaceAll(chain, "\n  caused by: ", " ← ")
}
