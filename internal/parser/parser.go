package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/workout/internal/model"
)

// ErrUnknownFormat is returned for files whose extension maps to no parser.
var ErrUnknownFormat = errors.New("unknown workout file format")

// Parser defines the interface all workout file parsers must implement.
type Parser interface {
	// Parse reads the file at path and returns its normalized tables.
	Parse(ctx context.Context, path string) (*model.Workout, error)
}

// Config holds settings shared by parser constructors. Fields a parser does
// not use are ignored.
type Config struct {
	// RenameColumns applies the canonical column schema after parsing.
	RenameColumns bool

	// ToolPaths is the ordered list of candidate locations of the fit
	// conversion tool. The first existing one is used.
	ToolPaths []string

	// Mute discards the fit conversion tool's output.
	Mute bool

	// RemoveCSV deletes the CSV files the fit conversion tool creates.
	RemoveCSV bool

	// DropEmptyColumns removes all-null columns from fit tables.
	DropEmptyColumns bool

	Logger *slog.Logger
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		RenameColumns:    true,
		ToolPaths:        []string{"crFitTool"},
		Mute:             true,
		DropEmptyColumns: true,
	}
}

// Detect returns the file format based on the file extension.
func Detect(path string) (model.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fit":
		return model.FormatFit, nil
	case ".gpx":
		return model.FormatGPX, nil
	case ".txt":
		return model.FormatLog, nil
	default:
		return "", fmt.Errorf("%w: %s (must be .fit, .gpx or .txt)", ErrUnknownFormat, filepath.Base(path))
	}
}
