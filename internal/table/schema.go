package table

// Alias lists the accepted names of one canonical column.
type Alias struct {
	Canonical string
	Names     []string
}

// CanonicalSchema is the fixed alias mapping applied by Normalize, in order.
var CanonicalSchema = []Alias{
	{Canonical: "latitude", Names: []string{"lat", "lat_deg"}},
	{Canonical: "longitude", Names: []string{"lon", "lon_deg"}},
	{Canonical: "seconds", Names: []string{"sec", "secs"}},
	{Canonical: "altitude", Names: []string{"alt_m"}},
}

// Normalize renames alias columns to their canonical names in place.
// Aliases absent from the table are ignored.
func Normalize(t *Table) {
	if t == nil {
		return
	}
	for _, a := range CanonicalSchema {
		for _, name := range a.Names {
			t.Rename(name, a.Canonical)
		}
	}
}
