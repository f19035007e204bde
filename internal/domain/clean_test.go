package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func at(lat, lon float64) Collision {
	return Collision{Latitude: ptr(lat), Longitude: ptr(lon)}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		expected bool
	}{
		{"manhattan", 40.7128, -74.0060, true},
		{"null island", 0, 0, false},
		{"lat on lower bound", 35, -74, false},
		{"lat on upper bound", 45, -74, false},
		{"lon on lower bound", 40, -80, false},
		{"lon on upper bound", 40, -70, false},
		{"just inside", 35.0001, -79.9999, true},
		{"sign flipped longitude", 40.7, 74.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InBounds(tt.lat, tt.lon))
		})
	}
}

func TestCleanWithStats(t *testing.T) {
	table := Table{
		at(40.71, -74.00),
		{Longitude: ptr(-73.9)},
		at(0, 0),
		{Latitude: ptr(40.6)},
		at(40.65, -73.95),
		at(46, -74),
		{},
	}

	cleaned, stats := CleanWithStats(table)

	assert.Equal(t, CleanStats{Input: 7, MissingCoordinates: 3, OutOfBounds: 2, Kept: 2}, stats)
	if diff := cmp.Diff(Table{at(40.71, -74.00), at(40.65, -73.95)}, cleaned); diff != "" {
		t.Fatalf("cleaned table mismatch (-want +got):\n%s", diff)
	}
}

func TestClean_Invariants(t *testing.T) {
	table := Table{}
	for lat := 30.0; lat <= 50; lat += 2.5 {
		for lon := -85.0; lon <= -65; lon += 2.5 {
			table = append(table, at(lat, lon))
		}
	}
	table = append(table, Collision{Latitude: ptr(40.0)}, Collision{Longitude: ptr(-74.0)})

	cleaned := Clean(table)

	assert.LessOrEqual(t, len(cleaned), len(table))
	assert.NotEmpty(t, cleaned)
	for _, c := range cleaned {
		if assert.NotNil(t, c.Latitude) && assert.NotNil(t, c.Longitude) {
			assert.Greater(t, *c.Latitude, 35.0)
			assert.Less(t, *c.Latitude, 45.0)
			assert.Greater(t, *c.Longitude, -80.0)
			assert.Less(t, *c.Longitude, -70.0)
		}
	}

	// Removed rows are exactly the invalid ones.
	expectedKept := 0
	for _, c := range table {
		if c.Latitude != nil && c.Longitude != nil && InBounds(*c.Latitude, *c.Longitude) {
			expectedKept++
		}
	}
	assert.Len(t, cleaned, expectedKept)
}

func TestClean_PreservesOrderAndRecords(t *testing.T) {
	first := at(40.1, -74.1)
	first.Factor = "Unsafe Speed"
	second := at(40.2, -74.2)
	second.Factor = "Driver Inattention/Distraction"

	table := Table{first, at(99, 99), second}
	cleaned := Clean(table)

	if diff := cmp.Diff(Table{first, second}, cleaned); diff != "" {
		t.Fatalf("cleaned table mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, table, 3, "input table must be left intact")
}

func TestClean_Empty(t *testing.T) {
	cleaned, stats := CleanWithStats(nil)
	assert.Empty(t, cleaned)
	assert.Equal(t, CleanStats{}, stats)
}
