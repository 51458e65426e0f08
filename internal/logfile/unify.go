package logfile

import (
	"fmt"

	"github.com/crimson-sun/workout/internal/table"
)

// Streams holds the table produced by each extractor.
type Streams struct {
	Sentences   *table.Table
	Barometer   *table.Table
	Autopause   *table.Table
	Workout     *table.Table
	Temperature *table.Table
	Location    *table.Table
	Velocity    *table.Table
}

// Ordered returns the streams in unification order.
func (s Streams) Ordered() []*table.Table {
	return []*table.Table{
		s.Sentences, s.Barometer, s.Autopause, s.Workout,
		s.Temperature, s.Location, s.Velocity,
	}
}

// Unify concatenates the streams and derives numeric lat/lon columns from
// the location summaries. A summary that is not a number fails the parse.
func Unify(streams ...*table.Table) (*table.Table, error) {
	t := table.Concat(streams...)
	for _, c := range []struct{ dst, src string }{
		{"lat", "lat_summary"},
		{"lon", "lon_summary"},
	} {
		vals, err := t.Numeric(c.src)
		if err != nil {
			return nil, fmt.Errorf("unify %s: %w", c.dst, err)
		}
		if err := t.Set(c.dst, vals); err != nil {
			return nil, fmt.Errorf("unify %s: %w", c.dst, err)
		}
	}
	return t, nil
}
