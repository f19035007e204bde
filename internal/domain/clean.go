package domain

// Regional bounding box used as a coordinate sanity filter. Bounds are exclusive.
const (
	MinLatitude  = 35.0
	MaxLatitude  = 45.0
	MinLongitude = -80.0
	MaxLongitude = -70.0
)

// CleanStats describes what Clean removed.
type CleanStats struct {
	Input              int
	MissingCoordinates int
	OutOfBounds        int
	Kept               int
}

// InBounds reports whether a coordinate lies strictly inside the bounding box.
func InBounds(lat, lon float64) bool {
	return lat > MinLatitude && lat < MaxLatitude &&
		lon > MinLongitude && lon < MaxLongitude
}

// Clean returns the records that have both coordinates and fall inside the
// bounding box, in their original order.
func Clean(table Table) Table {
	out, _ := CleanWithStats(table)
	return out
}

// CleanWithStats is Clean plus a breakdown of the dropped rows.
func CleanWithStats(table Table) (Table, CleanStats) {
	stats := CleanStats{Input: len(table)}
	out := make(Table, 0, len(table))

	for _, c := range table {
		if c.Latitude == nil || c.Longitude == nil {
			stats.MissingCoordinates++
			continue
		}
		if !InBounds(*c.Latitude, *c.Longitude) {
			stats.OutOfBounds++
			continue
		}
		out = append(out, c)
	}

	stats.Kept = len(out)
	return out, stats
}
