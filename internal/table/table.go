package table

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotNumeric is returned when a cell cannot be coerced to a number.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrDuplicateIndex is returned by Reindex when the index column repeats a value.
	ErrDuplicateIndex = errors.New("duplicate index value")
)

// Row maps column names to cell values for a single record.
type Row map[string]any

// Table is a column-ordered set of rows. Cells are nil (null), string,
// float64, int or bool. Columns present in only some rows are nil elsewhere.
type Table struct {
	columns []string
	data    map[string][]any
	rows    int
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{data: make(map[string][]any, len(columns))}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	_, ok := t.data[column]
	return ok
}

// Column returns a copy of the named column's cells, or nil if absent.
func (t *Table) Column(column string) []any {
	if t == nil {
		return nil
	}
	vals, ok := t.data[column]
	if !ok {
		return nil
	}
	out := make([]any, len(vals))
	copy(out, vals)
	return out
}

// Value returns the cell at row i of the named column.
func (t *Table) Value(i int, column string) any {
	vals, ok := t.data[column]
	if !ok || i < 0 || i >= len(vals) {
		return nil
	}
	return vals[i]
}

// Row returns row i as a Row containing every column, nulls included.
func (t *Table) Row(i int) Row {
	r := make(Row, len(t.columns))
	for _, c := range t.columns {
		r[c] = t.data[c][i]
	}
	return r
}

// Append adds a row. Columns not yet in the table are added in the order
// given by keys, which must list every key of r.
func (t *Table) Append(r Row, keys ...string) {
	for _, k := range keys {
		if _, ok := t.data[k]; !ok {
			t.addColumn(k)
		}
	}
	for _, c := range t.columns {
		t.data[c] = append(t.data[c], r[c])
	}
	t.rows++
}

// Set replaces (or adds) a column. vals must have one cell per row.
func (t *Table) Set(column string, vals []any) error {
	if len(vals) != t.rows {
		return fmt.Errorf("set %s: got %d values for %d rows", column, len(vals), t.rows)
	}
	if _, ok := t.data[column]; !ok {
		t.columns = append(t.columns, column)
	}
	cp := make([]any, len(vals))
	copy(cp, vals)
	t.data[column] = cp
	return nil
}

// Rename renames a column in place. If to already exists it is replaced by
// the renamed column. Returns false when from is absent.
func (t *Table) Rename(from, to string) bool {
	vals, ok := t.data[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	if _, exists := t.data[to]; exists {
		t.Drop(to)
	}
	for i, c := range t.columns {
		if c == from {
			t.columns[i] = to
			break
		}
	}
	delete(t.data, from)
	t.data[to] = vals
	return true
}

// Drop removes a column if present.
func (t *Table) Drop(column string) {
	if _, ok := t.data[column]; !ok {
		return
	}
	delete(t.data, column)
	for i, c := range t.columns {
		if c == column {
			t.columns = append(t.columns[:i], t.columns[i+1:]...)
			break
		}
	}
}

// DropEmptyColumns removes every column whose cells are all null.
func (t *Table) DropEmptyColumns() {
	for _, c := range t.Columns() {
		empty := true
		for _, v := range t.data[c] {
			if v != nil {
				empty = false
				break
			}
		}
		if empty {
			t.Drop(c)
		}
	}
}

// Numeric coerces the named column to float64 cells. Nulls stay null.
// A missing column yields an all-null result.
func (t *Table) Numeric(column string) ([]any, error) {
	out := make([]any, t.rows)
	vals, ok := t.data[column]
	if !ok {
		return out, nil
	}
	for i, v := range vals {
		if v == nil {
			continue
		}
		f, err := ToFloat(v)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", column, i, err)
		}
		out[i] = f
	}
	return out, nil
}

// Floats returns the named column as float64s, with NaN for null or
// non-numeric cells. A missing column yields an empty slice.
func (t *Table) Floats(column string) []float64 {
	if t == nil {
		return []float64{}
	}
	vals, ok := t.data[column]
	if !ok {
		return []float64{}
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, err := ToFloat(v)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = f
	}
	return out
}

// Reindex fills gaps in an integral index column: the result has one row per
// integer from the column's min to max, with the index column first and
// missing rows null.
func (t *Table) Reindex(column string) error {
	vals, ok := t.data[column]
	if !ok {
		return fmt.Errorf("reindex: no column %s", column)
	}
	if t.rows == 0 {
		return nil
	}

	pos := make(map[int]int, t.rows)
	keys := make([]int, 0, t.rows)
	for i, v := range vals {
		f, err := ToFloat(v)
		if v == nil || err != nil {
			return fmt.Errorf("reindex %s row %d: %w", column, i, ErrNotNumeric)
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("reindex %s row %d: non-integral value %v", column, i, f)
		}
		k := int(f)
		if _, dup := pos[k]; dup {
			return fmt.Errorf("reindex %s: %w: %d", column, ErrDuplicateIndex, k)
		}
		pos[k] = i
		keys = append(keys, k)
	}
	sort.Ints(keys)
	lo, hi := keys[0], keys[len(keys)-1]

	n := hi - lo + 1
	data := make(map[string][]any, len(t.columns))
	columns := []string{column}
	idx := make([]any, n)
	for k := lo; k <= hi; k++ {
		idx[k-lo] = float64(k)
	}
	data[column] = idx
	for _, c := range t.columns {
		if c == column {
			continue
		}
		columns = append(columns, c)
		col := make([]any, n)
		for k, i := range pos {
			col[k-lo] = t.data[c][i]
		}
		data[c] = col
	}

	t.columns = columns
	t.data = data
	t.rows = n
	return nil
}

// Concat stacks tables in order. The result has the union of columns in
// order of first appearance; cells a source table lacks are null.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.columns {
			if _, ok := out.data[c]; !ok {
				out.addColumn(c)
			}
		}
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range out.columns {
			src, ok := t.data[c]
			if !ok {
				src = make([]any, t.rows)
			}
			out.data[c] = append(out.data[c], src...)
		}
		out.rows += t.rows
	}
	return out
}

// ToFloat converts a cell to float64. Strings are parsed after trimming.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrNotNumeric, v)
	}
}

func (t *Table) addColumn(c string) {
	if _, ok := t.data[c]; ok {
		return
	}
	t.columns = append(t.columns, c)
	t.data[c] = make([]any, t.rows)
}
