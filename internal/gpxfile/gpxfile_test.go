package gpxfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/workout/internal/model"
	"github.com/crimson-sun/workout/internal/parser"
)

const trackGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Morning Ride</name>
    <trkseg>
      <trkpt lat="43.7000" lon="7.2500"><ele>12.5</ele><time>2022-02-21T12:49:36Z</time></trkpt>
      <trkpt lat="43.7010" lon="7.2510"><time>2022-02-21T12:49:37Z</time></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="43.7020" lon="7.2520"><ele>13.0</ele></trkpt>
    </trkseg>
  </trk>
</gpx>
`

const routeGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="1.0" lon="2.0"></wpt>
  <rte>
    <rtept lat="45.0" lon="6.0"><ele>100</ele></rtept>
  </rte>
</gpx>
`

func writeGPX(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseTrack(t *testing.T) {
	w, err := New(Config{RenameColumns: true}).Parse(context.Background(), writeGPX(t, trackGPX))
	require.NoError(t, err)

	assert.Equal(t, model.FormatGPX, w.Format)
	df := w.DataFrame()
	require.NotNil(t, df)
	assert.Equal(t, []string{"time", "latitude", "longitude", "altitude"}, df.Columns())
	assert.Equal(t, 3, df.Len())
	assert.Equal(t, []any{"2022-02-21T12:49:36Z", "2022-02-21T12:49:37Z", nil}, df.Column("time"))
	assert.Equal(t, []float64{43.7, 43.701, 43.702}, w.Latitude())
	assert.Equal(t, []float64{7.25, 7.251, 7.252}, w.Longitude())
	assert.Equal(t, []any{12.5, nil, 13.0}, df.Column("altitude"))
	assert.Equal(t, []float64{0, 1, 2}, w.Time())
}

func TestParseFallsBackToRoutes(t *testing.T) {
	w, err := New(Config{}).Parse(context.Background(), writeGPX(t, routeGPX))
	require.NoError(t, err)

	df := w.DataFrame()
	require.Equal(t, 1, df.Len())
	assert.Equal(t, 45.0, df.Value(0, "latitude"))
	assert.Equal(t, 100.0, df.Value(0, "altitude"))
}

func TestParseInvalid(t *testing.T) {
	_, err := New(Config{}).Parse(context.Background(), writeGPX(t, "not xml"))
	assert.Error(t, err)

	_, err = New(Config{}).Parse(context.Background(), filepath.Join(t.TempDir(), "absent.gpx"))
	assert.Error(t, err)
}

func TestParserRegistered(t *testing.T) {
	ctor, err := parser.Get(model.FormatGPX)
	require.NoError(t, err)
	_, ok := ctor(parser.DefaultConfig()).(*Parser)
	assert.True(t, ok)
}
