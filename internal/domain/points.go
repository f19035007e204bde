package domain

import "strconv"

const missingValue = "n/a"

// Markers builds map pins for the first limit records of a cleaned table.
// Records without coordinates are skipped.
func Markers(table Table, limit int) []Marker {
	head := table.Head(limit)
	markers := make([]Marker, 0, len(head))
	for _, c := range head {
		p, ok := pointOf(c)
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			Point:   p,
			Date:    c.CrashDate,
			Time:    c.CrashTime,
			Injured: formatCount(c.Injured),
			Killed:  formatCount(c.Killed),
			Factor:  orMissing(c.Factor),
		})
	}
	return markers
}

// HeatPoints returns the coordinates of the first limit records of a cleaned table.
func HeatPoints(table Table, limit int) []Point {
	head := table.Head(limit)
	points := make([]Point, 0, len(head))
	for _, c := range head {
		if p, ok := pointOf(c); ok {
			points = append(points, p)
		}
	}
	return points
}

func pointOf(c Collision) (Point, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return Point{}, false
	}
	return Point{Lat: *c.Latitude, Lon: *c.Longitude}, true
}

func formatCount(n *int) string {
	if n == nil {
		return missingValue
	}
	return strconv.Itoa(*n)
}

func orMissing(s string) string {
	if s == "" {
		return missingValue
	}
	return s
}
