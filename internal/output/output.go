// Package output writes workout tables in tabular and line-oriented formats.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/crimson-sun/workout/internal/table"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names accepted by New.
const (
	FormatNDJSON = "ndjson"
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatText   = "text"
)

// Encoder defines the interface for table destinations. Encode writes one
// named table; Close flushes anything buffered.
type Encoder interface {
	Encode(ctx context.Context, name string, t *table.Table) error
	Close() error
}

// New returns the encoder for format writing to w.
func New(format string, w io.Writer) (Encoder, error) {
	switch format {
	case FormatNDJSON, "json":
		return NewNDJSON(w), nil
	case FormatCSV:
		return NewCSV(w), nil
	case FormatXLSX:
		return NewXLSX(w), nil
	case FormatText, "":
		return NewText(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// formatCell renders a cell as text, using null for nil.
func formatCell(v any, null string) string {
	switch x := v.(type) {
	case nil:
		return null
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return null
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
