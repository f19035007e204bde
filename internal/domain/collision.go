package domain

import "time"

// Collision is one crash row plus the fields derived from its date and time.
// Optional values are nil when the source cell is empty or unparseable.
type Collision struct {
	CrashDate string
	CrashTime string
	Latitude  *float64
	Longitude *float64
	Injured   *int
	Killed    *int
	Factor    string // contributing factor, vehicle 1

	// Derived by Enrich.
	CrashTimestamp *time.Time
	Hour           *int
	DayOfWeek      *string
}

// Table is an ordered collection of collisions. Stages never modify a table
// in place; each returns a new one.
type Table []Collision

// Head returns the first n records, or the whole table when it is shorter.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t) {
		n = len(t)
	}
	return t[:n:n]
}

// Point is a WGS-84 latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

// Marker is a map pin with the popup fields shown for one collision.
type Marker struct {
	Point
	Date    string
	Time    string
	Injured string
	Killed  string
	Factor  string
}

// Count is one category of an aggregate chart.
type Count struct {
	Label string
	Value int
}

// Summary groups the three chart aggregates computed from a cleaned table.
type Summary struct {
	ByHour     []Count
	ByDay      []Count
	TopFactors []Count
}
