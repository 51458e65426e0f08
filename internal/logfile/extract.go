package logfile

import (
	"regexp"
	"strconv"

	"github.com/crimson-sun/workout/internal/table"
)

// kmhToMS converts km/h to m/s.
const kmhToMS = 3.6

// Line patterns. Each starts with timePrefix, so groups 1-6 are the time.
var (
	// 02-21 12:49:33.986  1421  1421 V BaromHelper: [2] notifyPressureData PressureCapabilityData [pressureNpM2=102745 stdElevM=-119 calibElevM=32.96028405738108]
	barometerPattern = regexp.MustCompile(timePrefix +
		`\s+\d+\s+\d+.*?BaromHelper:\s+\[([0-9]+)\]\s+.*?pressureNpM2=([0-9]+)\s+stdElevM=(-?[0-9]+)\s+calibElevM=(.*?)\]`)

	// 02-21 12:55:15.273  1421  1421 D StdAutoPauseManagerV1: [2] [2] setMoving changed from true to false
	autopausePattern = regexp.MustCompile(timePrefix +
		`\s+\d+\s+\d+.*?StdAutoPauseManager.*?setMoving changed from (\S+) to (\S+)`)

	// 02-04 09:39:31.899  1375  1375 I StdSessionManager: [2] [2] startWorkout
	startPattern = regexp.MustCompile(timePrefix +
		`\s+\d+\s+\d+.*?\s\S\sStdSessionManager:\s\[\d\]\s\[\d\] startWorkout`)

	// 02-21 13:05:29.829  1421  1421 I StdSessionWorkout-ELEMNT BOLT 981E:115: [2] liveEndWorkout 1645466729830 full=true
	endPattern = regexp.MustCompile(timePrefix +
		`\s+\d+\s+\d+\s+\S\sStdSessionWorkout.*?\[\d\]\s+liveEndWorkout\s+\d+\s+.*`)

	// 02-21 12:49:33.823  1421  1421 V TempHelper: [2] notifyTemperatureData TemperatureCapabilityData [Temperature [degC=11.630000114440918]]
	temperaturePattern = regexp.MustCompile(timePrefix +
		`\s+\d+\s+\d+\s+\S\sTempHelper:\s+\[\d\]\s+notifyTemperatureData\s+TemperatureCapabilityData\s+\[Temperature\s+\[degC=(.*?)\]\]`)

	// 02-21 12:49:36.389  1421  1421 V GPSDevice: [2] onLocationChanged 493306632 loc=41.547325,-70.988937 alt=11.10 horAcc=6.60 bearing=210.90 gpsSpeed=2.83 sats=12
	locationPattern = regexp.MustCompile(timePrefix +
		`\s+\d+\s+\d+\s+\S\s+GPSDevice:\s+\[\d\]\s+onLocationChanged\s+(\S+)\s+` +
		`loc=(-?[0-9]\d*\.\d+),(-?[0-9]\d*\.\d+)\s+alt=(-?[0-9]\d*\.\d+)\s+horAcc=(-?[0-9]\d*\.\d+)\s+` +
		`bearing=(-?[0-9]\d*\.\d+)\s+gpsSpeed=(-?[0-9]\d*\.\d+)\ssats=(\d+)`)

	// 02-04 09:39:22.949  1386  1386 V GPSDevice: [2] onNmeaMessage 1643963962 $PSVLF,1.16,0.65,242.1,-0.57,-0.30,0.96*61
	velocityPattern = regexp.MustCompile(timePrefix +
		`\s+\d+\s+\d+\s+\S+\s+GPSDevice:\s+\[\d\]\s+onNmeaMessage\s+\d+\s+\$PSVLF,` +
		`([-+]?\d+\.\d+),([-+]?\d+\.\d+),([-+]?\d+\.\d+),([-+]?\d+\.\d+),([-+]?\d+\.\d+),([-+]?\d+\.\d+)\S+`)
)

var (
	barometerColumns   = []string{"timestamp", "pressure", "std_elevation", "calib_elevation"}
	autopauseColumns   = []string{"timestamp", "moving"}
	workoutColumns     = []string{"timestamp", "start", "end"}
	temperatureColumns = []string{"timestamp", "temperature"}
	locationColumns    = []string{
		"timestamp", "lat_summary", "lon_summary", "alt_summary", "HDOP_summary",
		"heading_summary", "speed_summary", "numSV_summary",
	}
	velocityColumns = []string{
		"timestamp", "velocity_VLF_3d", "speed_VLF", "heading",
		"velocity_east", "velocity_north", "velocity_up",
	}
)

// extractBarometer reads pressure (N/m²), standard and calibrated elevation.
func extractBarometer(content, year string) *table.Table {
	t := table.New(barometerColumns...)
	for _, m := range barometerPattern.FindAllStringSubmatch(content, -1) {
		t.Append(table.Row{
			"timestamp":       Timestamp(year, m[1:7]),
			"pressure":        m[8],
			"std_elevation":   m[9],
			"calib_elevation": m[10],
		})
	}
	return t
}

// extractAutopause records each change of the moving state.
func extractAutopause(content, year string) *table.Table {
	t := table.New(autopauseColumns...)
	var fold transitionFold
	for _, m := range autopausePattern.FindAllStringSubmatch(content, -1) {
		moving, emit := fold.next(m[8])
		if !emit {
			continue
		}
		t.Append(table.Row{"timestamp": Timestamp(year, m[1:7]), "moving": moving})
	}
	return t
}

// extractWorkout keeps the first workout start and the first workout end.
// It yields one row when either exists; its timestamp is the start, or the
// end when no start was logged.
func extractWorkout(content, year string) *table.Table {
	t := table.New(workoutColumns...)
	var start, end any
	if m := startPattern.FindStringSubmatch(content); m != nil {
		start = Timestamp(year, m[1:7])
	}
	if m := endPattern.FindStringSubmatch(content); m != nil {
		end = Timestamp(year, m[1:7])
	}
	if start == nil && end == nil {
		return t
	}
	ts := start
	if ts == nil {
		ts = end
	}
	t.Append(table.Row{"timestamp": ts, "start": start, "end": end})
	return t
}

// extractTemperature reads temperatures in degrees Celsius.
func extractTemperature(content, year string) *table.Table {
	t := table.New(temperatureColumns...)
	for _, m := range temperaturePattern.FindAllStringSubmatch(content, -1) {
		t.Append(table.Row{"timestamp": Timestamp(year, m[1:7]), "temperature": m[7]})
	}
	return t
}

// extractLocation reads onLocationChanged updates. Values stay as logged.
func extractLocation(content, year string) *table.Table {
	t := table.New(locationColumns...)
	for _, m := range locationPattern.FindAllStringSubmatch(content, -1) {
		t.Append(table.Row{
			"timestamp":       Timestamp(year, m[1:7]),
			"lat_summary":     m[8],
			"lon_summary":     m[9],
			"alt_summary":     m[10],
			"HDOP_summary":    m[11],
			"heading_summary": m[12],
			"speed_summary":   m[13],
			"numSV_summary":   m[14],
		})
	}
	return t
}

// extractVelocity reads $PSVLF sentences: 3D velocity, ground speed,
// heading and the east/north/up components, all converted from km/h to m/s.
func extractVelocity(content, year string) *table.Table {
	t := table.New(velocityColumns...)
matches:
	for _, m := range velocityPattern.FindAllStringSubmatch(content, -1) {
		row := table.Row{"timestamp": Timestamp(year, m[1:7])}
		for i, col := range velocityColumns[1:] {
			v, err := strconv.ParseFloat(m[7+i], 64)
			if err != nil {
				continue matches
			}
			row[col] = v / kmhToMS
		}
		t.Append(row)
	}
	return t
}
