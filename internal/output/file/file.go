package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/crimson-sun/workout/internal/output"
	"github.com/crimson-sun/workout/internal/table"
)

const defaultBufSize = 64 * 1024 // 64KB

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output writes tables to a file through a buffered encoder.
type Output struct {
	enc     output.Encoder
	w       *bufio.Writer
	f       *os.File
	mu      sync.Mutex
	path    string
	bufSize int
}

// New creates (or truncates) the file at path and encodes tables into it in
// the given format. An empty format is inferred from the file extension.
func New(path, format string, opts ...Option) (*Output, error) {
	o := &Output{path: path, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(o)
	}
	if format == "" {
		format = FormatFromPath(path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("file output: open %s: %w", path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, o.bufSize)

	enc, err := output.New(format, o.w)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("file output: %w", err)
	}
	o.enc = enc
	return o, nil
}

// FormatFromPath maps a file extension to an output format name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return output.FormatCSV
	case ".xlsx":
		return output.FormatXLSX
	case ".ndjson", ".jsonl", ".json":
		return output.FormatNDJSON
	default:
		return output.FormatText
	}
}

// Encode writes the table to the file.
func (o *Output) Encode(ctx context.Context, name string, t *table.Table) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(ctx, name, t); err != nil {
		return fmt.Errorf("file output %s: %w", o.path, err)
	}
	return nil
}

// Close closes the encoder, flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Close(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: close encoder: %w", err)
	}
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}
