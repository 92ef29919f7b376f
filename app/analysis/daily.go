package analysis

import (
	"sort"
	"time"

	"newspulse/app/record"
)

// DailyCounts buckets records by the UTC calendar date of their timestamp
// and returns one entry per distinct date, ascending. Records with an
// unknown timestamp cannot be placed in a day bucket and are discarded.
// Missing days are not zero-filled; callers needing a dense series must
// fill gaps themselves.
func DailyCounts(records []record.Record) []DailyPoint {
	counts := make(map[time.Time]int)

	for _, r := range records {
		if !r.HasTimestamp() {
			continue
		}
		day := r.Timestamp.UTC().Truncate(24 * time.Hour)
		counts[day]++
	}

	series := make([]DailyPoint, 0, len(counts))
	for day, count := range counts {
		series = append(series, DailyPoint{Date: day, Count: count})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series
}
