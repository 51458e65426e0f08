package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/workout/internal/output"
	"github.com/crimson-sun/workout/internal/table"
)

// Multi fans out tables to multiple output.Encoder implementations.
// Each Encode call delivers the table to every wrapped encoder sequentially.
// If one encoder fails, the remaining encoders still receive the table.
type Multi struct {
	encoders []output.Encoder
}

// New creates a Multi that fans out to the given encoders.
func New(encoders ...output.Encoder) *Multi {
	return &Multi{encoders: encoders}
}

// Encode delivers the table to every wrapped encoder. Errors are collected
// but do not prevent delivery to subsequent encoders.
func (m *Multi) Encode(ctx context.Context, name string, t *table.Table) error {
	var errs []error
	for _, e := range m.encoders {
		if err := e.Encode(ctx, name, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on every wrapped encoder, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, e := range m.encoders {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
