package workout

import (
	"log/slog"
	"os"

	"github.com/crimson-sun/workout/internal/config"
	"github.com/crimson-sun/workout/internal/logging"
	"github.com/crimson-sun/workout/internal/output"
	"github.com/crimson-sun/workout/internal/parser"
)

type options struct {
	parser  parser.Config
	format  string
	bufSize int
}

// Option configures parsing.
type Option func(*options)

// WithLogger sets the logger used for warnings about skipped files and
// missing data. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.parser.Logger = l
	}
}

// WithToolPaths sets the candidate locations of the .fit conversion tool.
// The first existing one is used; bare names are looked up in PATH.
// Default: "crFitTool".
func WithToolPaths(paths ...string) Option {
	return func(o *options) {
		o.parser.ToolPaths = append([]string(nil), paths...)
	}
}

// WithMute discards the conversion tool's output when true. Default: true.
func WithMute(mute bool) Option {
	return func(o *options) {
		o.parser.Mute = mute
	}
}

// WithRemoveCSV deletes the CSV files written by the conversion tool after
// they are read. Default: false.
func WithRemoveCSV(remove bool) Option {
	return func(o *options) {
		o.parser.RemoveCSV = remove
	}
}

// WithDropEmptyColumns removes all-null columns from .fit tables.
// Default: true.
func WithDropEmptyColumns(drop bool) Option {
	return func(o *options) {
		o.parser.DropEmptyColumns = drop
	}
}

// WithRenameColumns renames known column variants (lat, lat_deg, secs, ...)
// to canonical names. Default: true.
func WithRenameColumns(rename bool) Option {
	return func(o *options) {
		o.parser.RenameColumns = rename
	}
}

// WithOutputFormat sets the format Workout.Write uses when called with an
// empty format. Default: "text".
func WithOutputFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithBufferSize sets the write buffer size of files created by
// Workout.WriteFiles. Default: 64KB.
func WithBufferSize(bytes int) Option {
	return func(o *options) {
		o.bufSize = bytes
	}
}

// LoadConfig reads workout.yaml from dir (if present) and WORKOUT_*
// environment variables, and returns an Option applying them: parser
// settings, the default output format and a stderr logger at the
// configured level.
func LoadConfig(dir string) (Option, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))
	return func(o *options) {
		o.parser = cfg.ParserConfig(logger)
		o.format = cfg.Output.Format
	}, nil
}

func defaultOptions() options {
	return options{parser: parser.DefaultConfig(), format: output.FormatText}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.parser.Logger == nil {
		o.parser.Logger = slog.Default()
	}
	return o
}
