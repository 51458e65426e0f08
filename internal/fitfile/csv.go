package fitfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/crimson-sun/workout/internal/table"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// missing lists the cell texts read as null.
var missing = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
}

// readCSV reads a CSV file with a header row. Numeric cells become float64,
// missing cells null, everything else stays text.
func readCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReader(f)
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return table.New(), nil
	}

	header := uniqueHeader(records[0])
	t := table.New(header...)
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("csv %s line %d: %d fields, header has %d", path, i+2, len(rec), len(header))
		}
		row := make(table.Row, len(header))
		for j, cell := range rec {
			row[header[j]] = parseCell(cell)
		}
		t.Append(row)
	}
	return t, nil
}

func parseCell(s string) any {
	if missing[s] {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// uniqueHeader suffixes repeated column names with ".1", ".2", ...
func uniqueHeader(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		name := n
		for k := 1; used[name]; k++ {
			name = n + "." + strconv.Itoa(k)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
