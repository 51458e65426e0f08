package logfile

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/crimson-sun/workout/internal/table"
)

// knotsToMS converts a speed in knots to metres per second.
const knotsToMS = 0.51444

var lineTime = regexp.MustCompile(timePrefix)

// Sentence is a decoded navigation sentence.
type Sentence struct {
	Identity string         // talker and type, e.g. "GPGGA"
	Fields   map[string]any // decoded values by field name
}

// SentenceDecoder decodes one "$..." navigation sentence. Decode errors
// cause the line to be skipped.
type SentenceDecoder interface {
	Decode(line string) (Sentence, error)
}

// NMEADecoder decodes NMEA 0183 sentences with checksum validation.
// Fields are filled for GGA, GSA, RMC and GLL; other types decode with
// only msgID and payload.
type NMEADecoder struct{}

// Decode implements SentenceDecoder.
func (NMEADecoder) Decode(line string) (Sentence, error) {
	s, err := nmea.Parse(line)
	if err != nil {
		return Sentence{}, err
	}
	out := Sentence{
		Identity: s.TalkerID() + s.DataType(),
		Fields:   map[string]any{"msgID": s.DataType()},
	}

	switch m := s.(type) {
	case nmea.GGA:
		out.Fields["payload"] = strings.Join(m.Fields, ",")
		out.Fields["lat"] = present(m.Fields, 1, m.Latitude)
		out.Fields["lon"] = present(m.Fields, 3, m.Longitude)
		out.Fields["NS"] = field(m.Fields, 2)
		out.Fields["EW"] = field(m.Fields, 4)
		out.Fields["quality"] = intOrString(m.FixQuality)
		out.Fields["numSV"] = present(m.Fields, 6, int(m.NumSatellites))
		out.Fields["HDOP"] = present(m.Fields, 7, m.HDOP)
		out.Fields["alt"] = present(m.Fields, 8, m.Altitude)
	case nmea.GSA:
		out.Fields["payload"] = strings.Join(m.Fields, ",")
		out.Fields["navMode"] = intOrString(m.FixType)
	case nmea.RMC:
		out.Fields["payload"] = strings.Join(m.Fields, ",")
		// an empty speed stays unset so the row is dropped
		if field(m.Fields, 6) != nil {
			out.Fields["spd"] = m.Speed
		}
		out.Fields["status"] = m.Validity
		// nav status is the 13th field, present from NMEA 4.1 on
		out.Fields["navStatus"] = field(m.Fields, 12)
	case nmea.GLL:
		out.Fields["payload"] = strings.Join(m.Fields, ",")
		out.Fields["status"] = m.Validity
	}
	return out, nil
}

// extractSentences decodes every line carrying a "$" sentence. Lines
// without a time prefix, with decode errors, or of an identity other than
// GPGGA, GNGSA, GNRMC or GNGLL are skipped.
func extractSentences(content, year string, dec SentenceDecoder, logger *slog.Logger) *table.Table {
	t := table.New()
	for _, line := range strings.Split(content, "\n") {
		i := strings.LastIndexByte(line, '$')
		if i < 0 {
			continue
		}
		tm := lineTime.FindStringSubmatch(line)
		if tm == nil {
			continue
		}
		s, err := dec.Decode(strings.TrimSpace(line[i:]))
		if err != nil {
			continue
		}
		row, keys, ok := sentenceRow(s, logger)
		if !ok {
			continue
		}
		row["timestamp"] = Timestamp(year, tm[1:7])
		row["sentence_type"] = s.Identity
		t.Append(row, append(append([]string{"timestamp"}, keys...), "sentence_type")...)
	}
	return t
}

// sentenceRow selects the columns emitted for a sentence identity.
func sentenceRow(s Sentence, logger *slog.Logger) (table.Row, []string, bool) {
	f := s.Fields
	switch s.Identity {
	case "GPGGA":
		keys := []string{
			"EW_GGA", "NS_GGA", "HDOP_GGA", "lat_GGA", "lon_GGA", "numSV_GGA",
			"identity_GGA", "alt_GGA", "msgID_GGA", "payload_GGA", "quality_GGA",
		}
		return table.Row{
			"EW_GGA":       f["EW"],
			"NS_GGA":       f["NS"],
			"HDOP_GGA":     f["HDOP"],
			"lat_GGA":      f["lat"],
			"lon_GGA":      f["lon"],
			"numSV_GGA":    f["numSV"],
			"identity_GGA": s.Identity,
			"alt_GGA":      f["alt"],
			"msgID_GGA":    f["msgID"],
			"payload_GGA":  f["payload"],
			"quality_GGA":  f["quality"],
		}, keys, true
	case "GNGSA":
		return table.Row{"navMode_GSA": f["navMode"]}, []string{"navMode_GSA"}, true
	case "GNRMC":
		spd, ok := f["spd"].(float64)
		if !ok {
			return nil, nil, false
		}
		return table.Row{
			"speed_RMC":     spd * knotsToMS,
			"status_RMC":    f["status"],
			"navStatus_RMC": f["navStatus"],
		}, []string{"speed_RMC", "status_RMC", "navStatus_RMC"}, true
	case "GNGLL":
		status := 1
		switch f["status"] {
		case "A":
		case "V":
			status = 0
		default:
			logger.Debug("unexpected GLL status", "status", f["status"])
		}
		return table.Row{"status_GLL": status}, []string{"status_GLL"}, true
	default:
		return nil, nil, false
	}
}

func field(fields []string, i int) any {
	if i >= len(fields) || fields[i] == "" {
		return nil
	}
	return fields[i]
}

// present returns v, or nil when the raw field at i is empty. The decoder
// reports empty numeric fields as zero.
func present(fields []string, i int, v any) any {
	if field(fields, i) == nil {
		return nil
	}
	return v
}

func intOrString(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
