package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanTable(n int) Table {
	table := make(Table, n)
	for i := range table {
		table[i] = at(40.5+float64(i)*1e-5, -74.0)
	}
	return table
}

func TestHead(t *testing.T) {
	table := cleanTable(5)

	assert.Len(t, table.Head(3), 3)
	assert.Len(t, table.Head(5), 5)
	assert.Len(t, table.Head(50), 5)
	assert.Empty(t, table.Head(0))
	assert.Empty(t, table.Head(-1))
	assert.Equal(t, table[0], table.Head(3)[0])
}

func TestMarkers_UsesFirstRecordsUpToLimit(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		expected int
	}{
		{"fewer than limit", 12, 12},
		{"exactly limit", 1000, 1000},
		{"more than limit", 1500, 1000},
		{"empty", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := cleanTable(tt.rows)
			markers := Markers(table, 1000)
			require.Len(t, markers, tt.expected)
			if tt.expected > 0 {
				assert.Equal(t, *table[0].Latitude, markers[0].Lat)
				assert.Equal(t, *table[tt.expected-1].Latitude, markers[tt.expected-1].Lat)
			}
		})
	}
}

func TestMarkers_PopupFields(t *testing.T) {
	c := at(40.7, -73.9)
	c.CrashDate = "09/11/2021"
	c.CrashTime = "2:39"
	c.Injured = ptr(2)
	c.Factor = "Unsafe Speed"

	markers := Markers(Table{c}, 1000)

	require.Len(t, markers, 1)
	assert.Equal(t, Marker{
		Point:   Point{Lat: 40.7, Lon: -73.9},
		Date:    "09/11/2021",
		Time:    "2:39",
		Injured: "2",
		Killed:  "n/a",
		Factor:  "Unsafe Speed",
	}, markers[0])
}

func TestHeatPoints_UsesFirstRecordsUpToLimit(t *testing.T) {
	assert.Len(t, HeatPoints(cleanTable(10), 10000), 10)
	assert.Len(t, HeatPoints(cleanTable(10000), 10000), 10000)
	assert.Len(t, HeatPoints(cleanTable(10001), 10000), 10000)

	points := HeatPoints(cleanTable(3), 2)
	assert.Equal(t, []Point{{40.5, -74.0}, {40.5 + 1e-5, -74.0}}, points)
}
