package logfile

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// yearMarker identifies device log files whose names carry the year,
// e.g. "BoltApp.WO-2022-02-21_12-49-33.txt".
const yearMarker = "BoltApp.WO"

// timePrefix matches the "MM-DD HH:MM:SS.mmm" prefix of a log line as six groups.
const timePrefix = `(\d\d)-(\d\d)\s+(\d\d):(\d\d):(\d\d).(\d\d\d)`

// DeriveYear returns the 4-digit year encoded in a device log file name.
// When the name does not follow the convention, it returns now's year and
// ok=false; callers should warn that timestamps may carry the wrong year.
func DeriveYear(path string, now time.Time) (year string, ok bool) {
	base := filepath.Base(path)
	if strings.Contains(base, yearMarker) {
		if _, rest, found := strings.Cut(base, "-"); found && len(rest) >= 4 && isDigits(rest[:4]) {
			return rest[:4], true
		}
	}
	return strconv.Itoa(now.Year()), false
}

// Timestamp renders YYYY-MM-DDTHH:MM:SS.mmmZ from a year and the six groups
// captured by timePrefix. Values are not validated and the Z is literal:
// log times carry no zone.
func Timestamp(year string, m []string) string {
	var b strings.Builder
	b.Grow(24)
	b.WriteString(year)
	b.WriteByte('-')
	b.WriteString(m[0])
	b.WriteByte('-')
	b.WriteString(m[1])
	b.WriteByte('T')
	b.WriteString(m[2])
	b.WriteByte(':')
	b.WriteString(m[3])
	b.WriteByte(':')
	b.WriteString(m[4])
	b.WriteByte('.')
	b.WriteString(m[5])
	b.WriteByte('Z')
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
