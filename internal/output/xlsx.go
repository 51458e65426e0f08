package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/workout/internal/table"
)

const defaultSheet = "Sheet1"

// XLSX collects tables as worksheets, one per name, and writes the
// workbook to the underlying writer on Close.
type XLSX struct {
	w      io.Writer
	f      *excelize.File
	sheets map[string]bool
}

// NewXLSX creates a workbook encoder writing to w.
func NewXLSX(w io.Writer) *XLSX {
	return &XLSX{w: w, f: excelize.NewFile(), sheets: make(map[string]bool)}
}

// Encode adds t as a worksheet named after name.
func (e *XLSX) Encode(ctx context.Context, name string, t *table.Table) error {
	sheet := e.sheetName(name)
	if _, err := e.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx output %s: %w", name, err)
	}
	e.sheets[sheet] = true

	cols := t.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := e.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx output %s: write header: %w", name, err)
	}

	row := make([]any, len(cols))
	for i := 0; i < t.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j, c := range cols {
			row[j] = t.Value(i, c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx output %s: %w", name, err)
		}
		if err := e.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx output %s: write row %d: %w", name, i, err)
		}
	}
	return nil
}

// Close writes the workbook and releases it.
func (e *XLSX) Close() error {
	defer func() { _ = e.f.Close() }()
	if len(e.sheets) > 0 && !e.sheets[defaultSheet] {
		if err := e.f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("xlsx output: %w", err)
		}
		e.f.SetActiveSheet(0)
	}
	if _, err := e.f.WriteTo(e.w); err != nil {
		return fmt.Errorf("xlsx output: %w", err)
	}
	return nil
}

// sheetName makes name a valid, unused worksheet name.
func (e *XLSX) sheetName(name string) string {
	s := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	if s == "" {
		s = "table"
	}
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	base := s
	for i := 2; e.sheets[s]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		r := []rune(base)
		if len(r)+len(suffix) > 31 {
			r = r[:31-len(suffix)]
		}
		s = string(r) + suffix
	}
	return s
}
