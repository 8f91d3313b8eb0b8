package formatter

import (
	"fmt"
	"io"
	"strings"

	"spikeplay/internal/util"
)

// TableFormatter prints the activity report as a box-drawing table.
type TableFormatter struct {
	w       io.Writer
	headers []string
}

// NewTableFormatter creates a table formatter writing to w.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w:       w,
		headers: []string{"Edge", "Weight", "Activations"},
	}
}

// Format renders the report rows plus a totals footer.
func (f *TableFormatter) Format(report Report) error {
	widths := f.columnWidths(report)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")

	for _, row := range report.Edges {
		f.printRow([]string{
			edgeLabel(row),
			util.FormatWeight(row.Weight),
			util.FormatGroupedNumber(row.Count),
		}, widths)
	}

	f.printBorder(widths, "middle")
	f.printRow([]string{
		fmt.Sprintf("%d unique", report.UniqueEdges),
		"",
		util.FormatGroupedNumber(report.TotalActivations),
	}, widths)
	f.printBorder(widths, "bottom")

	return nil
}

func edgeLabel(row EdgeRow) string {
	return fmt.Sprintf("%d → %d", row.Source, row.Target)
}

func (f *TableFormatter) columnWidths(report Report) []int {
	widths := make([]int, len(f.headers))
	for i, h := range f.headers {
		widths[i] = util.GetDisplayWidth(h)
	}

	consider := func(values []string) {
		for i, v := range values {
			if w := util.GetDisplayWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for _, row := range report.Edges {
		consider([]string{
			edgeLabel(row),
			util.FormatWeight(row.Weight),
			util.FormatGroupedNumber(row.Count),
		})
	}
	consider([]string{
		fmt.Sprintf("%d unique", report.UniqueEdges),
		"",
		util.FormatGroupedNumber(report.TotalActivations),
	})

	return widths
}

func (f *TableFormatter) printBorder(widths []int, kind string) {
	var left, mid, right string
	switch kind {
	case "top":
		left, mid, right = "┌", "┬", "┐"
	case "bottom":
		left, mid, right = "└", "┴", "┘"
	default:
		left, mid, right = "├", "┼", "┤"
	}

	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	fmt.Fprintln(f.w, left+strings.Join(parts, mid)+right)
}

func (f *TableFormatter) printRow(values []string, widths []int) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = " " + util.PadString(v, widths[i]) + " "
	}
	fmt.Fprintln(f.w, "│"+strings.Join(parts, "│")+"│")
}
