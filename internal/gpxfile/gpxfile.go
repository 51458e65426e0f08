// Package gpxfile parses GPS exchange (.gpx) files into a point table.
package gpxfile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/crimson-sun/workout/internal/model"
	"github.com/crimson-sun/workout/internal/parser"
	"github.com/crimson-sun/workout/internal/table"
)

// TableKey is the name of the point table in the parsed Workout.
const TableKey = "gpx"

var columns = []string{"time", "latitude", "longitude", "altitude"}

func init() {
	parser.Register(model.FormatGPX, func(cfg parser.Config) parser.Parser {
		return New(Config{RenameColumns: cfg.RenameColumns, Logger: cfg.Logger})
	})
}

// Config configures a gpx Parser.
type Config struct {
	RenameColumns bool
	Logger        *slog.Logger
}

// Parser parses .gpx files.
type Parser struct {
	cfg Config
}

// New creates a Parser with the given configuration.
func New(cfg Config) *Parser {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Parser{cfg: cfg}
}

// Parse reads every track point of the file. Files without tracks fall back
// to route points, then to waypoints.
func (p *Parser) Parse(ctx context.Context, path string) (*model.Workout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse gpx %s: %w", path, err)
	}

	t := table.New(columns...)
	for _, pt := range points(g) {
		t.Append(pointRow(pt))
	}
	if p.cfg.RenameColumns {
		table.Normalize(t)
	}

	w := model.NewWorkout(path, model.FormatGPX, TableKey)
	w.Tables[TableKey] = t
	p.cfg.Logger.Debug("parsed gpx", "path", path, "points", t.Len())
	return w, nil
}

func points(g *gpx.GPX) []gpx.GPXPoint {
	var out []gpx.GPXPoint
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			out = append(out, seg.Points...)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, rte := range g.Routes {
		out = append(out, rte.Points...)
	}
	if len(out) > 0 {
		return out
	}
	return g.Waypoints
}

func pointRow(pt gpx.GPXPoint) table.Row {
	row := table.Row{
		"latitude":  pt.Latitude,
		"longitude": pt.Longitude,
	}
	if !pt.Timestamp.IsZero() {
		row["time"] = pt.Timestamp.UTC().Format(time.RFC3339)
	}
	if pt.Elevation.NotNull() {
		row["altitude"] = pt.Elevation.Value()
	}
	return row
}
