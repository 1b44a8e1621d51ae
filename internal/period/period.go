// Package period computes the half-open reporting intervals that bucket a
// habit's event log. All boundaries are local wall-clock midnights in the
// caller-supplied location; intervals stay correct across DST transitions
// (a "day" may be 23 or 25 real hours). Nothing in this package reads
// ambient configuration: timezone and week start are explicit on every call.
package period

import (
	"time"

	"github.com/metaember/habitsv2/internal/models"
)

// Interval is a half-open time range [Start, End). Start and End are UTC
// instants that correspond to local midnights in the location the interval
// was computed for.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Range returns the interval of the given kind that contains instant,
// interpreted in loc. custom periods behave exactly like day.
func Range(instant time.Time, kind models.Period, weekStart models.WeekStart, loc *time.Location) Interval {
	lt := instant.In(loc)
	y, m, d := lt.Date()

	var start, end time.Time
	switch kind {
	case models.PeriodWeek:
		offset := weekdayOffset(lt.Weekday(), weekStart)
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		end = time.Date(y, m, d-offset+7, 0, 0, 0, 0, loc)
	case models.PeriodMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	default: // day and custom
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		end = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}
	return Interval{Start: start.UTC(), End: end.UTC()}
}

// Current returns the interval containing now.
func Current(now time.Time, kind models.Period, weekStart models.WeekStart, loc *time.Location) Interval {
	return Range(now, kind, weekStart, loc)
}

// Prev returns the interval immediately before iv. Stepping through the
// instant just before Start keeps the walk correct across DST boundaries.
func (iv Interval) Prev(kind models.Period, weekStart models.WeekStart, loc *time.Location) Interval {
	return Range(iv.Start.Add(-time.Second), kind, weekStart, loc)
}

// Next returns the interval immediately after iv.
func (iv Interval) Next(kind models.Period, weekStart models.WeekStart, loc *time.Location) Interval {
	return Range(iv.End, kind, weekStart, loc)
}

// weekdayOffset is the number of days to back up from wd to reach the most
// recent week-start day.
func weekdayOffset(wd time.Weekday, weekStart models.WeekStart) int {
	if weekStart == models.WeekStartSunday {
		return int(wd)
	}
	// Monday start: Mon=0 ... Sun=6
	return (int(wd) + 6) % 7
}
