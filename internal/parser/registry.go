package parser

import (
	"fmt"
	"sort"

	"github.com/crimson-sun/workout/internal/model"
)

// Constructor is a function that creates a new Parser instance.
type Constructor func(cfg Config) Parser

var registry = map[model.Format]Constructor{}

// Register adds a parser constructor under the given format.
func Register(format model.Format, ctor Constructor) {
	registry[format] = ctor
}

// Get returns the parser constructor for the given format.
func Get(format model.Format) (Constructor, error) {
	ctor, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w: no parser registered for %q", ErrUnknownFormat, format)
	}
	return ctor, nil
}

// Formats returns the registered formats in sorted order.
func Formats() []model.Format {
	formats := make([]model.Format, 0, len(registry))
	for f := range registry {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
