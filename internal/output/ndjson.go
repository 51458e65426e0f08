package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/crimson-sun/workout/internal/table"
)

// NDJSON writes one JSON object per row, keys in column order.
type NDJSON struct {
	w *bufio.Writer
}

// NewNDJSON creates an NDJSON encoder writing to w.
func NewNDJSON(w io.Writer) *NDJSON {
	return &NDJSON{w: bufio.NewWriter(w)}
}

// Encode writes one JSON object per row and flushes.
func (e *NDJSON) Encode(ctx context.Context, name string, t *table.Table) error {
	cols := t.Columns()
	keys := make([][]byte, len(cols))
	for i, c := range cols {
		k, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("ndjson output %s: %w", name, err)
		}
		keys[i] = k
	}

	for i := 0; i < t.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.w.WriteByte('{')
		for j, c := range cols {
			if j > 0 {
				e.w.WriteByte(',')
			}
			e.w.Write(keys[j])
			e.w.WriteByte(':')
			v, err := json.Marshal(jsonValue(t.Value(i, c)))
			if err != nil {
				return fmt.Errorf("ndjson output %s row %d: %w", name, i, err)
			}
			e.w.Write(v)
		}
		if _, err := e.w.WriteString("}\n"); err != nil {
			return fmt.Errorf("ndjson output %s: %w", name, err)
		}
	}
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("ndjson output %s: %w", name, err)
	}
	return nil
}

// Close flushes buffered output.
func (e *NDJSON) Close() error {
	return e.w.Flush()
}

// jsonValue maps non-finite floats to null.
func jsonValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
