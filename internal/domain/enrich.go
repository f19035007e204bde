package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// crashTimeLayouts are tried before falling back to dateparse. The first one
// matches the NYC export ("09/11/2021 2:39").
var crashTimeLayouts = []string{
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04 PM",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// clockPattern is the accepted shape of a time-of-day cell: H:MM or H:MM:SS,
// optionally followed by AM/PM.
var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?(\s?[AaPp][Mm])?$`)

// ParseCrashTime combines a date and a time-of-day string into a timestamp.
// It reports false instead of returning an error when either part is empty,
// the time is not a clock reading, or the combination cannot be parsed.
func ParseCrashTime(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" || !clockPattern.MatchString(clock) {
		return time.Time{}, false
	}
	value := date + " " + clock

	for _, layout := range crashTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Enrich returns a copy of the table with CrashTimestamp, Hour, and DayOfWeek
// derived from each record's date and time. Unparseable rows get nil for all
// three fields.
func Enrich(table Table) Table {
	out := make(Table, len(table))
	for i, c := range table {
		out[i] = EnrichCollision(c)
	}
	return out
}

// EnrichCollision derives the timestamp fields for a single record.
func EnrichCollision(c Collision) Collision {
	c.CrashTimestamp, c.Hour, c.DayOfWeek = nil, nil, nil

	ts, ok := ParseCrashTime(c.CrashDate, c.CrashTime)
	if !ok {
		return c
	}
	hour := ts.Hour()
	day := ts.Weekday().String()
	c.CrashTimestamp = &ts
	c.Hour = &hour
	c.DayOfWeek = &day
	return c
}

// CountUnparsed returns how many records have no derived timestamp.
func CountUnparsed(table Table) int {
	n := 0
	for _, c := range table {
		if c.CrashTimestamp == nil {
			n++
		}
	}
	return n
}
