package domain

import (
	"sort"
	"strconv"
	"strings"
)

// TopFactorLimit is how many contributing factors the factor chart shows.
const TopFactorLimit = 10

// Weekdays is the fixed category order of the day-of-week chart.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CountByHour counts records per hour of day. Only observed hours are
// returned, in ascending order; records without an hour are skipped.
func CountByHour(table Table) []Count {
	var perHour [24]int
	for _, c := range table {
		if c.Hour == nil || *c.Hour < 0 || *c.Hour > 23 {
			continue
		}
		perHour[*c.Hour]++
	}

	counts := make([]Count, 0, 24)
	for h, n := range perHour {
		if n == 0 {
			continue
		}
		counts = append(counts, Count{Label: strconv.Itoa(h), Value: n})
	}
	return counts
}

// CountByDay counts records per weekday. All seven weekdays are returned,
// Monday first; days without records have a zero count.
func CountByDay(table Table) []Count {
	perDay := make(map[string]int, len(Weekdays))
	for _, c := range table {
		if c.DayOfWeek == nil {
			continue
		}
		perDay[*c.DayOfWeek]++
	}

	counts := make([]Count, len(Weekdays))
	for i, day := range Weekdays {
		counts[i] = Count{Label: day, Value: perDay[day]}
	}
	return counts
}

// TopFactors returns the n most frequent contributing factors by descending
// count. Ties keep the order in which factors first appear in the table.
// Empty factors are not counted.
func TopFactors(table Table, n int) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, c := range table {
		factor := strings.TrimSpace(c.Factor)
		if factor == "" {
			continue
		}
		i, ok := index[factor]
		if !ok {
			i = len(counts)
			index[factor] = i
			counts = append(counts, Count{Label: factor})
		}
		counts[i].Value++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Value > counts[j].Value
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	if counts == nil {
		counts = []Count{}
	}
	return counts
}

// Summarize computes all chart aggregates for a cleaned table.
func Summarize(table Table) Summary {
	return Summary{
		ByHour:     CountByHour(table),
		ByDay:      CountByDay(table),
		TopFactors: TopFactors(table, TopFactorLimit),
	}
}
