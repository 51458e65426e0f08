package workout

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/crimson-sun/workout/internal/manager"
	"github.com/crimson-sun/workout/internal/model"
	"github.com/crimson-sun/workout/internal/output"
	"github.com/crimson-sun/workout/internal/output/file"
	"github.com/crimson-sun/workout/internal/output/multi"
	"github.com/crimson-sun/workout/internal/parser"

	// Register parser implementations.
	_ "github.com/crimson-sun/workout/internal/fitfile"
	_ "github.com/crimson-sun/workout/internal/gpxfile"
	_ "github.com/crimson-sun/workout/internal/logfile"
)

// ErrUnknownFormat is returned for files whose extension is not .fit, .gpx
// or .txt.
var ErrUnknownFormat = parser.ErrUnknownFormat

// Workout is one parsed file. The primary table is the one most callers
// want; other tables (laps, sessions, ... for .fit files) are available by
// name.
type Workout struct {
	w       *model.Workout
	format  string
	bufSize int
}

// ID returns the identifier assigned when the file was parsed.
func (w *Workout) ID() string { return w.w.ID.String() }

// Path returns the parsed file's path.
func (w *Workout) Path() string { return w.w.Path }

// Format returns "fit", "gpx" or "log".
func (w *Workout) Format() string { return string(w.w.Format) }

// Len returns the number of rows of the primary table.
func (w *Workout) Len() int { return w.w.DataFrame().Len() }

// Columns returns the primary table's column names.
func (w *Workout) Columns() []string { return w.w.DataFrame().Columns() }

// Column returns a column of the primary table, or an empty slice. Cells
// are nil, string, float64, int or bool.
func (w *Workout) Column(name string) []any { return w.w.Get(name) }

// Latitude returns the latitude column, NaN where missing.
func (w *Workout) Latitude() []float64 { return w.w.Latitude() }

// Longitude returns the longitude column, NaN where missing.
func (w *Workout) Longitude() []float64 { return w.w.Longitude() }

// Time returns the time axis: elapsed seconds for .fit files, the row
// index otherwise.
func (w *Workout) Time() []float64 { return w.w.Time() }

// Tables returns the names of all tables, primary first, the rest sorted.
func (w *Workout) Tables() []string {
	var names []string
	for name := range w.w.Tables {
		if name != w.w.Primary {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := w.w.Tables[w.w.Primary]; ok {
		names = append([]string{w.w.Primary}, names...)
	}
	return names
}

// TableColumn returns a column of the named table, or nil if either is absent.
func (w *Workout) TableColumn(tableName, column string) []any {
	return w.w.Tables[tableName].Column(column)
}

// Write encodes every table to out in the given format: "text", "ndjson",
// "csv" or "xlsx". An empty format uses the configured default.
func (w *Workout) Write(ctx context.Context, out io.Writer, format string) error {
	if format == "" {
		format = w.format
	}
	enc, err := output.New(format, out)
	if err != nil {
		return err
	}
	if err := w.encode(ctx, enc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// WriteFiles writes every table to each path, choosing the format from the
// file extension (.csv, .xlsx, .ndjson/.jsonl/.json, text otherwise).
func (w *Workout) WriteFiles(ctx context.Context, paths ...string) error {
	var opts []file.Option
	if w.bufSize > 0 {
		opts = append(opts, file.WithBufSize(w.bufSize))
	}
	encoders := make([]output.Encoder, 0, len(paths))
	for _, p := range paths {
		f, err := file.New(p, "", opts...)
		if err != nil {
			multi.New(encoders...).Close()
			return err
		}
		encoders = append(encoders, f)
	}
	m := multi.New(encoders...)
	if err := w.encode(ctx, m); err != nil {
		m.Close()
		return err
	}
	return m.Close()
}

func (w *Workout) encode(ctx context.Context, enc output.Encoder) error {
	for _, name := range w.Tables() {
		if err := enc.Encode(ctx, name, w.w.Tables[name]); err != nil {
			return fmt.Errorf("workout %s: %w", w.w.Path, err)
		}
	}
	return nil
}

// Parse parses a single file.
func Parse(ctx context.Context, path string, opts ...Option) (*Workout, error) {
	return NewManager(opts...).Add(ctx, path)
}

// Manager holds a collection of parsed workouts. Not safe for concurrent use.
type Manager struct {
	m    *manager.Manager
	opts options
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	o := buildOptions(opts)
	return &Manager{m: manager.New(o.parser), opts: o}
}

// Add parses path and appends it to the collection.
func (m *Manager) Add(ctx context.Context, path string) (*Workout, error) {
	w, err := m.m.Add(ctx, path)
	if err != nil {
		return nil, err
	}
	return m.wrap(w), nil
}

// Run parses every file under dir, logging and skipping files that have an
// unknown extension or fail to parse. It returns the number added.
func (m *Manager) Run(ctx context.Context, dir string) (int, error) {
	return m.m.Run(ctx, dir)
}

// Remove drops the workouts parsed from path and returns how many there were.
func (m *Manager) Remove(path string) int { return m.m.Remove(path) }

// Sort orders the collection by lower-cased file name.
func (m *Manager) Sort() { m.m.Sort() }

// Workouts returns the collection in its current order.
func (m *Manager) Workouts() []*Workout {
	ws := m.m.Collection()
	out := make([]*Workout, len(ws))
	for i, w := range ws {
		out[i] = m.wrap(w)
	}
	return out
}

func (m *Manager) wrap(w *model.Workout) *Workout {
	return &Workout{w: w, format: m.opts.format, bufSize: m.opts.bufSize}
}

// Collect lists the files under dir, recursively, whose names end with
// ending. An empty ending matches every file.
func Collect(dir, ending string) ([]string, error) {
	return manager.Collect(dir, ending)
}
