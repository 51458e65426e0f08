package fitfile

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/workout/internal/model"
	"github.com/crimson-sun/workout/internal/parser"
)

// fakeTool mimics the conversion tool: it writes a records, a sessions and a
// header-only laps table next to the given prefix.
const fakeTool = `#!/bin/sh
prefix="$4"
printf '\357\273\277seconds,lat,lon,power,empty\n0,43.7,7.2,200,\n1,43.8,7.3,,\n3,43.9,7.4,210,\n' > "$prefix.records.csv"
printf 'sport,total_timer_time\ncycling,3600\n' > "$prefix.sessions.csv"
printf 'start_time\n' > "$prefix.laps.csv"
echo "converted $2"
`

func writeTool(t *testing.T, dir, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tool")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeFit(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ride.fit")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o644))
	return path
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "crFitTool", fakeTool)
	path := writeFit(t, dir)

	p := New(Config{
		ToolPaths:        []string{filepath.Join(dir, "absent"), tool},
		Mute:             true,
		DropEmptyColumns: true,
		RenameColumns:    true,
	})

	w, err := p.Parse(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, model.FormatFit, w.Format)
	assert.Equal(t, TableKey, w.Primary)
	assert.Contains(t, w.Tables, "sessions")
	assert.NotContains(t, w.Tables, "laps")
	assert.NotContains(t, w.Tables, "ant")

	df := w.DataFrame()
	require.NotNil(t, df)
	assert.Equal(t, []string{"seconds", "latitude", "longitude", "power"}, df.Columns())
	assert.Equal(t, []any{0.0, 1.0, 2.0, 3.0}, df.Column("seconds"))
	assert.Equal(t, []any{43.7, 43.8, nil, 43.9}, df.Column("latitude"))
	assert.Equal(t, []any{200.0, nil, nil, 210.0}, df.Column("power"))
	assert.Equal(t, []float64{0, 1, 2, 3}, w.Time())

	assert.Equal(t, []any{"cycling"}, w.Tables["sessions"].Column("sport"))

	assert.FileExists(t, filepath.Join(dir, ".ride.records.csv"))
}

func TestParseRemovesCSV(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "crFitTool", fakeTool)
	path := writeFit(t, dir)

	p := New(Config{ToolPaths: []string{tool}, Mute: true, RemoveCSV: true, RenameColumns: true})

	w, err := p.Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, w.DataFrame().Len())

	for _, name := range []string{"records", "sessions", "laps"} {
		assert.NoFileExists(t, filepath.Join(dir, ".ride."+name+".csv"))
	}
}

func TestParseKeepsEmptyColumns(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "crFitTool", fakeTool)

	w, err := New(Config{ToolPaths: []string{tool}, Mute: true, RenameColumns: true}).
		Parse(context.Background(), writeFit(t, dir))
	require.NoError(t, err)

	assert.True(t, w.DataFrame().Has("empty"))
}

func TestParseLogsToolOutput(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "crFitTool", fakeTool)

	var logs bytes.Buffer
	p := New(Config{
		ToolPaths:     []string{tool},
		RenameColumns: true,
		Logger:        slog.New(slog.NewTextHandler(&logs, nil)),
	})

	_, err := p.Parse(context.Background(), writeFit(t, dir))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "converted")
	assert.Contains(t, logs.String(), "could not create file")
}

func TestParseToolFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "crFitTool", "#!/bin/sh\nexit 3\n")

	var logs bytes.Buffer
	p := New(Config{ToolPaths: []string{tool}, Mute: true, Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	w, err := p.Parse(context.Background(), writeFit(t, dir))
	require.NoError(t, err)
	assert.Nil(t, w.DataFrame())
	assert.Empty(t, w.Latitude())
	assert.Contains(t, logs.String(), "fit tool failed")
}

func TestParseToolNotFound(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{ToolPaths: []string{filepath.Join(dir, "nope")}})

	_, err := p.Parse(context.Background(), writeFit(t, dir))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestResolveTool(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "fakefit", "#!/bin/sh\n")
	sub := filepath.Join(dir, "subdir")
	require.NoError(t, os.Mkdir(sub, 0o755))

	got, ok := ResolveTool([]string{"", filepath.Join(dir, "missing"), sub, tool})
	assert.True(t, ok)
	assert.Equal(t, tool, got)

	_, ok = ResolveTool([]string{filepath.Join(dir, "missing")})
	assert.False(t, ok)

	_, ok = ResolveTool(nil)
	assert.False(t, ok)

	t.Setenv("PATH", dir)
	got, ok = ResolveTool([]string{"fakefit"})
	assert.True(t, ok)
	assert.Equal(t, tool, got)
}

func TestCSVPrefix(t *testing.T) {
	assert.Equal(t, filepath.Join("data", ".ride 1"), CSVPrefix(filepath.Join("data", "ride 1.fit")))
	assert.Equal(t, filepath.Join("data", ".fitness"), CSVPrefix(filepath.Join("data", "fitness.FIT")))
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	content := "\xEF\xBB\xBFa,b,a,c\n1, 2.5,x,\nNaN,-3,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := readCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "a.1", "c"}, got.Columns())
	assert.Equal(t, []any{1.0, nil}, got.Column("a"))
	assert.Equal(t, []any{2.5, -3.0}, got.Column("b"))
	assert.Equal(t, []any{"x", nil}, got.Column("a.1"))
	assert.Equal(t, []any{nil, nil}, got.Column("c"))
}

func TestReadCSVShortRowsAndErrors(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(short, []byte("a,b\n1\n"), 0o644))
	got, err := readCSV(short)
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, got.Column("b"))

	long := filepath.Join(dir, "long.csv")
	require.NoError(t, os.WriteFile(long, []byte("a\n1,2\n"), 0o644))
	_, err = readCSV(long)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	got, err = readCSV(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	_, err = readCSV(filepath.Join(dir, "absent.csv"))
	assert.Error(t, err)
}

func TestParserRegistered(t *testing.T) {
	ctor, err := parser.Get(model.FormatFit)
	require.NoError(t, err)
	_, ok := ctor(parser.DefaultConfig()).(*Parser)
	assert.True(t, ok)
}
