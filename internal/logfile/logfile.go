// Package logfile parses free-text device logs into a single time-ordered
// table. Seven extractors each pull one event family out of the log;
// their tables are concatenated and normalized.
package logfile

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/crimson-sun/workout/internal/model"
	"github.com/crimson-sun/workout/internal/parser"
	"github.com/crimson-sun/workout/internal/table"
)

// TableKey is the name of the unified table in the parsed Workout.
const TableKey = "nmea"

func init() {
	parser.Register(model.FormatLog, func(cfg parser.Config) parser.Parser {
		return New(Config{RenameColumns: cfg.RenameColumns, Logger: cfg.Logger})
	})
}

// Config configures a log Parser.
type Config struct {
	// RenameColumns applies the canonical column schema to the unified table.
	RenameColumns bool

	// Decoder decodes "$" navigation sentences. Default: NMEADecoder.
	Decoder SentenceDecoder

	// Now supplies the fallback year. Default: time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Decoder == nil {
		c.Decoder = NMEADecoder{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Parser parses device log files.
type Parser struct {
	cfg Config
}

// New creates a Parser with the given configuration.
func New(cfg Config) *Parser {
	cfg.defaults()
	return &Parser{cfg: cfg}
}

// Parse reads a device log and returns a Workout whose TableKey table holds
// every extracted event.
func (p *Parser) Parse(ctx context.Context, path string) (*model.Workout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	content, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode log %s: %w", path, err)
	}

	year, ok := DeriveYear(path, p.cfg.Now())
	if !ok {
		p.cfg.Logger.Warn("could not auto-detect year, using current year", "path", path, "year", year)
	}

	streams, err := p.Extract(ctx, content, year)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	unified, err := Unify(streams.Ordered()...)
	if err != nil {
		return nil, fmt.Errorf("parse log %s: %w", path, err)
	}
	if p.cfg.RenameColumns {
		table.Normalize(unified)
	}

	w := model.NewWorkout(path, model.FormatLog, TableKey)
	w.Tables[TableKey] = unified
	p.cfg.Logger.Debug("parsed log", "path", path, "rows", unified.Len(), "columns", len(unified.Columns()))
	return w, nil
}

// Extract runs every extractor over the decoded log content.
func (p *Parser) Extract(ctx context.Context, content, year string) (Streams, error) {
	var s Streams
	extractors := []struct {
		dst *(*table.Table)
		run func() *table.Table
	}{
		{&s.Sentences, func() *table.Table { return extractSentences(content, year, p.cfg.Decoder, p.cfg.Logger) }},
		{&s.Barometer, func() *table.Table { return extractBarometer(content, year) }},
		{&s.Autopause, func() *table.Table { return extractAutopause(content, year) }},
		{&s.Workout, func() *table.Table { return extractWorkout(content, year) }},
		{&s.Temperature, func() *table.Table { return extractTemperature(content, year) }},
		{&s.Location, func() *table.Table { return extractLocation(content, year) }},
		{&s.Velocity, func() *table.Table { return extractVelocity(content, year) }},
	}
	for _, e := range extractors {
		if err := ctx.Err(); err != nil {
			return Streams{}, err
		}
		*e.dst = e.run()
	}
	return s, nil
}

// Decode converts ISO-8859-1 log bytes to UTF-8 with "\n" line endings.
func Decode(raw []byte) (string, error) {
	b, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return string(b), nil
}
