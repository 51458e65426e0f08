package output

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/workout/internal/table"
)

func testTable() *table.Table {
	t := table.New("timestamp", "moving", "latitude", "numSV")
	t.Append(table.Row{"timestamp": "2022-02-21T12:49:35.000Z", "moving": true, "latitude": nil, "numSV": 12})
	t.Append(table.Row{"timestamp": "2022-02-21T12:49:36.389Z", "moving": nil, "latitude": 41.547325, "numSV": nil})
	return t
}

func TestNDJSONKeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewNDJSON(&buf)
	if err := enc.Encode(context.Background(), "nmea", testTable()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	want := `{"timestamp":"2022-02-21T12:49:35.000Z","moving":true,"latitude":null,"numSV":12}` + "\n" +
		`{"timestamp":"2022-02-21T12:49:36.389Z","moving":null,"latitude":41.547325,"numSV":null}` + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestNDJSONNonFinite(t *testing.T) {
	tb := table.New("v")
	tb.Append(table.Row{"v": math.Inf(1)})
	tb.Append(table.Row{"v": math.NaN()})

	var buf bytes.Buffer
	if err := NewNDJSON(&buf).Encode(context.Background(), "x", tb); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if buf.String() != "{\"v\":null}\n{\"v\":null}\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSV(&buf)
	if err := enc.Encode(context.Background(), "nmea", testTable()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	enc.Close()

	want := "timestamp,moving,latitude,numSV\n" +
		"2022-02-21T12:49:35.000Z,true,,12\n" +
		"2022-02-21T12:49:36.389Z,,41.547325,\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewText(&buf).Encode(context.Background(), "nmea", testTable()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "nmea (2 rows)" {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.Contains(lines[1], "timestamp") || !strings.Contains(lines[1], "numSV") {
		t.Errorf("header = %q", lines[1])
	}
	if !strings.Contains(lines[2], "NaN") || !strings.Contains(lines[3], "41.547325") {
		t.Errorf("rows = %q, %q", lines[2], lines[3])
	}
	// Right alignment puts every row's last cell at the same column.
	if len(lines[1]) != len(lines[2]) || len(lines[2]) != len(lines[3]) {
		t.Errorf("rows not aligned:\n%s", buf.String())
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	enc := NewXLSX(&buf)
	ctx := context.Background()
	if err := enc.Encode(ctx, "nmea", testTable()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if err := enc.Encode(ctx, "laps/summary", testTable()); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "nmea" || sheets[1] != "laps_summary" {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows("nmea")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[2][2] != "41.547325" {
		t.Errorf("rows = %v", rows)
	}
}

func TestXLSXSheetNames(t *testing.T) {
	e := NewXLSX(&bytes.Buffer{})
	long := strings.Repeat("x", 40)

	first := e.sheetName(long)
	if len(first) != 31 {
		t.Errorf("len = %d, want 31", len(first))
	}
	e.sheets[first] = true
	second := e.sheetName(long)
	if second == first || len(second) > 31 || !strings.HasSuffix(second, " (2)") {
		t.Errorf("second name = %q", second)
	}
	if got := e.sheetName(""); got != "table" {
		t.Errorf("empty name = %q", got)
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{FormatNDJSON, FormatCSV, FormatXLSX, FormatText, "json", ""} {
		enc, err := New(format, &bytes.Buffer{})
		if err != nil {
			t.Errorf("New(%q) error: %v", format, err)
			continue
		}
		if enc == nil {
			t.Errorf("New(%q) returned nil encoder", format)
		}
	}

	_, err := New("parquet", &bytes.Buffer{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("got %v, want ErrUnknownFormat", err)
	}
}

func TestEncodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, enc := range []Encoder{NewNDJSON(&bytes.Buffer{}), NewCSV(&bytes.Buffer{}), NewText(&bytes.Buffer{})} {
		if err := enc.Encode(ctx, "nmea", testTable()); !errors.Is(err, context.Canceled) {
			t.Errorf("%T: got %v, want context.Canceled", enc, err)
		}
	}
}
