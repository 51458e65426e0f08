// Package fitfile parses binary .fit workout files. The file is converted to
// CSV by an external tool; each CSV it writes becomes a named table.
package fitfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/workout/internal/model"
	"github.com/crimson-sun/workout/internal/parser"
	"github.com/crimson-sun/workout/internal/table"
)

// ErrToolNotFound is returned when none of the configured tool paths exist.
var ErrToolNotFound = errors.New("fit conversion tool not found")

const (
	// TableKey is the name of the primary table.
	TableKey = "records"

	// TimeColumn is the time axis of the primary table.
	TimeColumn = "seconds"
)

// Outputs lists the tables the conversion tool can produce, in read order.
var Outputs = []string{
	"ant",
	"CLM_WORKOUT_CUSTOM_ALERT",
	"device_infos",
	"laps",
	"lengths",
	"records",
	"sessions",
	"srm_bike_profiles",
	"wahoo_custom_nums",
	"wahoo_pedal_monitor",
}

func init() {
	parser.Register(model.FormatFit, func(cfg parser.Config) parser.Parser {
		return New(Config{
			ToolPaths:        cfg.ToolPaths,
			Mute:             cfg.Mute,
			RemoveCSV:        cfg.RemoveCSV,
			DropEmptyColumns: cfg.DropEmptyColumns,
			RenameColumns:    cfg.RenameColumns,
			Logger:           cfg.Logger,
		})
	})
}

// Config configures a fit Parser.
type Config struct {
	// ToolPaths are candidate locations of the conversion tool. Bare names
	// are looked up in PATH.
	ToolPaths []string

	// Mute discards the tool's output instead of logging it.
	Mute bool

	// RemoveCSV deletes the generated CSV files after reading them.
	RemoveCSV bool

	// DropEmptyColumns removes columns whose cells are all null.
	DropEmptyColumns bool

	// RenameColumns applies the canonical column schema to every table.
	RenameColumns bool

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Parser parses .fit files through the conversion tool.
type Parser struct {
	cfg Config
}

// New creates a Parser with the given configuration.
func New(cfg Config) *Parser {
	cfg.defaults()
	return &Parser{cfg: cfg}
}

// ResolveTool returns the first candidate that is an existing regular file.
// Candidates without a path separator are looked up in PATH.
func ResolveTool(candidates []string) (string, bool) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if !strings.ContainsRune(c, filepath.Separator) && !strings.ContainsRune(c, '/') {
			if p, err := exec.LookPath(c); err == nil {
				return p, true
			}
			continue
		}
		info, err := os.Stat(c)
		if err == nil && info.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

// CSVPrefix returns the path prefix of the CSV files generated for a .fit
// file: the file's name without extension, hidden with a leading dot.
func CSVPrefix(path string) string {
	base := filepath.Base(path)
	return filepath.Join(filepath.Dir(path), "."+strings.TrimSuffix(base, filepath.Ext(base)))
}

// Parse converts the file and reads every generated table. The records table
// is reindexed so that seconds has no gaps.
func (p *Parser) Parse(ctx context.Context, path string) (*model.Workout, error) {
	tool, ok := ResolveTool(p.cfg.ToolPaths)
	if !ok {
		return nil, fmt.Errorf("parse fit %s: %w (searched %s)", path, ErrToolNotFound, strings.Join(p.cfg.ToolPaths, ", "))
	}

	prefix := CSVPrefix(path)
	if err := p.convert(ctx, tool, path, prefix); err != nil {
		return nil, fmt.Errorf("parse fit %s: %w", path, err)
	}

	w := model.NewWorkout(path, model.FormatFit, TableKey)
	w.TimeColumn = TimeColumn

	var created []string
	for _, name := range Outputs {
		file := prefix + "." + name + ".csv"
		if _, err := os.Stat(file); err != nil {
			p.cfg.Logger.Error("could not create file", "file", file)
			continue
		}
		created = append(created, file)

		t, err := readCSV(file)
		if err != nil {
			return nil, fmt.Errorf("parse fit %s: %w", path, err)
		}
		if p.cfg.DropEmptyColumns {
			t.DropEmptyColumns()
		}
		if t.Len() == 0 || len(t.Columns()) == 0 {
			continue
		}
		w.Tables[name] = t
	}

	if p.cfg.RemoveCSV {
		for _, file := range created {
			if err := os.Remove(file); err != nil {
				p.cfg.Logger.Warn("could not remove file", "file", file, "error", err)
			}
		}
	}

	if p.cfg.RenameColumns {
		for _, t := range w.Tables {
			table.Normalize(t)
		}
	}

	if records, ok := w.Tables[TableKey]; ok {
		if err := records.Reindex(TimeColumn); err != nil {
			return nil, fmt.Errorf("parse fit %s: fill %s: %w", path, TimeColumn, err)
		}
	}

	p.cfg.Logger.Debug("parsed fit", "path", path, "tables", len(w.Tables))
	return w, nil
}

// convert runs the conversion tool. A failing tool is logged, not returned:
// whatever CSVs it managed to write are still read.
func (p *Parser) convert(ctx context.Context, tool, path, prefix string) error {
	cmd := exec.CommandContext(ctx, tool, "--in", path, "--csv", prefix)
	output, err := cmd.CombinedOutput()
	if len(output) > 0 && !p.cfg.Mute {
		p.cfg.Logger.Info("fit tool output", "tool", tool, "output", string(output))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		p.cfg.Logger.Error("fit tool failed", "tool", tool, "path", path, "error", err)
	}
	return nil
}
