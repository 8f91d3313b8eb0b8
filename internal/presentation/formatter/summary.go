package formatter

import (
	"fmt"
	"io"

	"spikeplay/internal/util"
)

// SummaryFormatter prints a compact prose summary of the activity report.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a summary formatter writing to w.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

// Format renders the totals and the most active edges, one per line.
func (f *SummaryFormatter) Format(report Report) error {
	fmt.Fprintln(f.w, "Connection Activity Summary")
	fmt.Fprintln(f.w, "===========================")
	fmt.Fprintf(f.w, "Frames played:     %s\n", util.FormatGroupedNumber(report.Frames))
	fmt.Fprintf(f.w, "Unique edges:      %s\n", util.FormatGroupedNumber(report.UniqueEdges))
	fmt.Fprintf(f.w, "Total activations: %s\n", util.FormatGroupedNumber(report.TotalActivations))

	if len(report.Edges) == 0 {
		fmt.Fprintln(f.w, "No edge activity detected.")
		return nil
	}

	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, "Most active connections:")
	for i, row := range report.Edges {
		fmt.Fprintf(f.w, "  %2d. %d → %d  (weight %s, %s activations)\n",
			i+1, row.Source, row.Target,
			util.FormatWeight(row.Weight), util.FormatGroupedNumber(row.Count))
	}
	return nil
}
