package period

import (
	"time"

	"github.com/metaember/habitsv2/internal/models"
)

// Bucket is one period interval together with the effective events whose
// TsClient falls inside it and their summed value. Success is left for the
// caller to set: for build habits it means Total >= target; break-habit
// success is absence of events, which this grouping cannot see (no events
// means no bucket), so break evaluation scans the calendar range instead.
type Bucket struct {
	Start   time.Time
	End     time.Time
	Events  []models.Event
	Total   float64
	Success bool
}

// Bucketize groups events into one bucket per distinct period interval
// touched by at least one event. Buckets come back in event-scan order;
// callers that walk periods chronologically sort by Start themselves.
// Empty input yields an empty (non-nil) slice.
func Bucketize(events []models.Event, kind models.Period, weekStart models.WeekStart, loc *time.Location) []Bucket {
	buckets := make([]Bucket, 0, len(events))
	index := make(map[int64]int, len(events))

	for _, ev := range events {
		iv := Range(ev.TsClient, kind, weekStart, loc)
		key := iv.Start.Unix()
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Start: iv.Start, End: iv.End})
		}
		buckets[i].Events = append(buckets[i].Events, ev)
		buckets[i].Total += ev.Value
	}
	return buckets
}
