package render

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the table for items as CSV with a header row. Empty cells
// are written as empty fields rather than Placeholder.
func WriteCSV[T any](w io.Writer, t Table[T], items []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i, row := range t.Cells(items) {
		rec := make([]string, len(row))
		for j, cell := range row {
			if !cell.Empty() {
				rec[j] = cell.Plain()
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
