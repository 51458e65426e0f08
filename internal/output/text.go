package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/crimson-sun/workout/internal/table"
)

// Text prints each table as a titled block of right-aligned columns.
// Null cells print as NaN.
type Text struct {
	w io.Writer
}

// NewText creates a console encoder writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Encode writes a titled, column-aligned rendering of t.
func (e *Text) Encode(ctx context.Context, name string, t *table.Table) error {
	if _, err := fmt.Fprintf(e.w, "%s (%d rows)\n", name, t.Len()); err != nil {
		return fmt.Errorf("text output %s: %w", name, err)
	}
	tw := tabwriter.NewWriter(e.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	cols := t.Columns()
	fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")

	cells := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j, c := range cols {
			cells[j] = formatCell(t.Value(i, c), "NaN")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("text output %s: %w", name, err)
	}
	return nil
}

// Close is a no-op.
func (e *Text) Close() error {
	return nil
}
