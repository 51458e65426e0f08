package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/crimson-sun/workout/internal/table"
)

// CSV writes a header row followed by one record per row. Null cells are
// empty. Each encoded table starts with its own header.
type CSV struct {
	w *csv.Writer
}

// NewCSV creates a CSV encoder writing to w.
func NewCSV(w io.Writer) *CSV {
	return &CSV{w: csv.NewWriter(w)}
}

// Encode writes a header line followed by the rows of t.
func (e *CSV) Encode(ctx context.Context, name string, t *table.Table) error {
	cols := t.Columns()
	if err := e.w.Write(cols); err != nil {
		return fmt.Errorf("csv output %s: write header: %w", name, err)
	}
	record := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j, c := range cols {
			record[j] = formatCell(t.Value(i, c), "")
		}
		if err := e.w.Write(record); err != nil {
			return fmt.Errorf("csv output %s: write row %d: %w", name, i, err)
		}
	}
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return fmt.Errorf("csv output %s: flush: %w", name, err)
	}
	return nil
}

// Close flushes buffered output.
func (e *CSV) Close() error {
	e.w.Flush()
	return e.w.Error()
}
