package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVFormatter emits the per-edge rows as CSV for spreadsheet analysis.
// Totals are omitted; they are derivable from the rows.
type CSVFormatter struct {
	w io.Writer
}

// NewCSVFormatter creates a CSV formatter writing to w.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(report Report) error {
	cw := csv.NewWriter(f.w)

	if err := cw.Write([]string{"source", "target", "weight", "count"}); err != nil {
		return err
	}
	for _, row := range report.Edges {
		record := []string{
			strconv.Itoa(row.Source),
			strconv.Itoa(row.Target),
			strconv.FormatFloat(row.Weight, 'f', 3, 64),
			strconv.Itoa(row.Count),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
