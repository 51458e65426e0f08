package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/crimson-sun/workout/internal/output"
	"github.com/crimson-sun/workout/internal/parser"
)

// EnvPrefix prefixes every environment override, e.g. WORKOUT_LOG_LEVEL.
const EnvPrefix = "WORKOUT"

// Config holds all workout configuration.
type Config struct {
	Log    LogConfig
	Parse  ParseConfig
	Fit    FitConfig
	Output OutputConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string // "debug", "info", "warn", "error"
	JSON  bool
}

// ParseConfig holds settings shared by all parsers.
type ParseConfig struct {
	RenameColumns bool
}

// FitConfig holds settings of the .fit conversion tool.
type FitConfig struct {
	ToolPaths        []string
	Mute             bool
	RemoveCSV        bool
	DropEmptyColumns bool
}

// OutputConfig holds output encoder settings.
type OutputConfig struct {
	Format string // "text", "ndjson", "csv", "xlsx"
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	p := parser.DefaultConfig()
	return Config{
		Log:   LogConfig{Level: "info"},
		Parse: ParseConfig{RenameColumns: p.RenameColumns},
		Fit: FitConfig{
			ToolPaths:        p.ToolPaths,
			Mute:             p.Mute,
			RemoveCSV:        p.RemoveCSV,
			DropEmptyColumns: p.DropEmptyColumns,
		},
		Output: OutputConfig{Format: output.FormatText},
	}
}

// Load reads configuration from defaults, an optional workout.yaml in dir,
// and WORKOUT_* environment variables, in increasing precedence. An empty
// dir skips the file lookup.
func Load(dir string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigName("workout")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.json", def.Log.JSON)
	v.SetDefault("parse.rename_columns", def.Parse.RenameColumns)
	v.SetDefault("fit.tool_paths", def.Fit.ToolPaths)
	v.SetDefault("fit.mute", def.Fit.Mute)
	v.SetDefault("fit.remove_csv", def.Fit.RemoveCSV)
	v.SetDefault("fit.drop_empty_columns", def.Fit.DropEmptyColumns)
	v.SetDefault("output.format", def.Output.Format)

	if dir != "" {
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Log: LogConfig{
			Level: v.GetString("log.level"),
			JSON:  v.GetBool("log.json"),
		},
		Parse: ParseConfig{RenameColumns: v.GetBool("parse.rename_columns")},
		Fit: FitConfig{
			ToolPaths:        toolPaths(v),
			Mute:             v.GetBool("fit.mute"),
			RemoveCSV:        v.GetBool("fit.remove_csv"),
			DropEmptyColumns: v.GetBool("fit.drop_empty_columns"),
		},
		Output: OutputConfig{Format: v.GetString("output.format")},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// toolPaths reads fit.tool_paths as a YAML list or, from the environment,
// as an OS path list (colon-separated on Unix).
func toolPaths(v *viper.Viper) []string {
	if s, ok := v.Get("fit.tool_paths").(string); ok {
		var out []string
		for _, p := range filepath.SplitList(s) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return v.GetStringSlice("fit.tool_paths")
}

// Validate checks the log level and output format names.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	switch c.Output.Format {
	case output.FormatText, output.FormatNDJSON, output.FormatCSV, output.FormatXLSX:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", output.ErrUnknownFormat, c.Output.Format))
	}
	return errors.Join(errs...)
}

// ParserConfig converts the parse and fit sections to parser settings.
func (c Config) ParserConfig(logger *slog.Logger) parser.Config {
	return parser.Config{
		RenameColumns:    c.Parse.RenameColumns,
		ToolPaths:        append([]string(nil), c.Fit.ToolPaths...),
		Mute:             c.Fit.Mute,
		RemoveCSV:        c.Fit.RemoveCSV,
		DropEmptyColumns: c.Fit.DropEmptyColumns,
		Logger:           logger,
	}
}
