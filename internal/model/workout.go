package model

import (
	"github.com/google/uuid"

	"github.com/crimson-sun/workout/internal/table"
)

// Workout is the result of parsing one workout file. Tables holds the named
// sub-tables the parser produced; Primary names the one DataFrame returns.
type Workout struct {
	ID      uuid.UUID
	Path    string
	Format  Format
	Tables  map[string]*table.Table
	Primary string

	// TimeColumn is the column Time reads. Empty means the row index.
	TimeColumn string
}

// NewWorkout creates an empty Workout for the given file.
func NewWorkout(path string, format Format, primary string) *Workout {
	return &Workout{
		ID:      uuid.New(),
		Path:    path,
		Format:  format,
		Tables:  make(map[string]*table.Table),
		Primary: primary,
	}
}

// DataFrame returns the primary table, or nil if nothing was parsed.
func (w *Workout) DataFrame() *table.Table {
	if w == nil {
		return nil
	}
	return w.Tables[w.Primary]
}

// Get returns a column of the primary table, or an empty slice.
func (w *Workout) Get(column string) []any {
	if vals := w.DataFrame().Column(column); vals != nil {
		return vals
	}
	return []any{}
}

// Latitude returns the latitude column as float64s (NaN for nulls).
func (w *Workout) Latitude() []float64 {
	return w.DataFrame().Floats("latitude")
}

// Longitude returns the longitude column as float64s (NaN for nulls).
func (w *Workout) Longitude() []float64 {
	return w.DataFrame().Floats("longitude")
}

// Index returns 0..n-1 where n is the number of latitude values.
func (w *Workout) Index() []float64 {
	n := len(w.Latitude())
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	return idx
}

// Time returns the time axis: TimeColumn when set, otherwise Index.
func (w *Workout) Time() []float64 {
	if w.TimeColumn != "" {
		return w.DataFrame().Floats(w.TimeColumn)
	}
	return w.Index()
}
