package stats

import (
	"time"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/period"
)

// AdherenceWindowDays is the rolling window for adherence rates.
const AdherenceWindowDays = 30

// BuildStreak counts consecutive successful periods ending at the present.
// The current period is included when its bucket already meets the target;
// an in-progress current period that has not met the target yet does not
// break the streak, the walk just starts one period earlier. The first
// failed or missing period ends the walk. Events must already be effective.
func BuildStreak(habit models.Habit, effective []models.Event, now time.Time, weekStart models.WeekStart, loc *time.Location) int {
	buckets := period.Bucketize(effective, habit.Period, weekStart, loc)
	byStart := make(map[int64]*period.Bucket, len(buckets))
	for i := range buckets {
		buckets[i].Success = buckets[i].Total >= habit.Target
		byStart[buckets[i].Start.Unix()] = &buckets[i]
	}

	current := period.Range(now, habit.Period, weekStart, loc)
	walk := current
	if b, ok := byStart[current.Start.Unix()]; !ok || !b.Success {
		walk = current.Prev(habit.Period, weekStart, loc)
	}

	streak := 0
	for {
		b, ok := byStart[walk.Start.Unix()]
		if !ok || !b.Success {
			return streak
		}
		streak++
		walk = walk.Prev(habit.Period, weekStart, loc)
	}
}

// TimeSinceLastFailure returns whole calendar days since the most recent
// effective event (the last "incident" of a break habit). No events at all
// reads as one day clean; an incident today reads as zero. Day distance is
// counted by walking local midnights, so 23- and 25-hour DST days still
// count as exactly one day each.
func TimeSinceLastFailure(effective []models.Event, now time.Time, loc *time.Location) int {
	if len(effective) == 0 {
		return 1
	}

	last := effective[0].TsClient
	for _, ev := range effective[1:] {
		if ev.TsClient.After(last) {
			last = ev.TsClient
		}
	}

	today := startOfDay(now, loc)
	days := 0
	for d := startOfDay(last, loc); d.Before(today); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// OnPace reports whether progress inside [start, end) keeps up with the
// elapsed fraction of the period. A degenerate (zero or negative length)
// period is never on pace; once the period has ended pacing collapses to
// final success.
func OnPace(currentTotal, target float64, now, start, end time.Time) bool {
	if !end.After(start) {
		return false
	}
	if !now.Before(end) {
		return currentTotal >= target
	}

	elapsed := now.Sub(start).Seconds() / end.Sub(start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	} else if elapsed > 1 {
		elapsed = 1
	}
	return currentTotal >= target*elapsed
}

// AdherenceRate is the percentage of recent periods that went well, over a
// trailing window of the given number of days.
//
// Build habits score only periods that saw at least one effective event
// (a silent period is not counted against the habit — a known leniency
// toward sparse loggers). Break habits enumerate every period interval
// fully contained in the window and score the ones with zero incidents.
func AdherenceRate(habit models.Habit, effective []models.Event, now time.Time, days int, weekStart models.WeekStart, loc *time.Location) float64 {
	windowStart := now.Add(-time.Duration(days) * 24 * time.Hour)

	if habit.Type == models.HabitTypeBreak {
		iv := period.Range(windowStart, habit.Period, weekStart, loc)
		if iv.Start.Before(windowStart) {
			iv = iv.Next(habit.Period, weekStart, loc)
		}
		total, clean := 0, 0
		for ; !iv.End.After(now); iv = iv.Next(habit.Period, weekStart, loc) {
			total++
			if !anyEventIn(effective, iv) {
				clean++
			}
		}
		if total == 0 {
			return 0
		}
		return 100 * float64(clean) / float64(total)
	}

	recent := make([]models.Event, 0, len(effective))
	for _, ev := range effective {
		if !ev.TsClient.Before(windowStart) && !ev.TsClient.After(now) {
			recent = append(recent, ev)
		}
	}
	buckets := period.Bucketize(recent, habit.Period, weekStart, loc)
	if len(buckets) == 0 {
		return 0
	}
	successful := 0
	for _, b := range buckets {
		if b.Total >= habit.Target {
			successful++
		}
	}
	return 100 * float64(successful) / float64(len(buckets))
}

// ForHabit assembles the composite statistics payload from a habit's raw
// event log. The log may still contain void-control events; filtering
// happens here so callers can hand over rows straight from the store.
func ForHabit(habit models.Habit, events []models.Event, now time.Time, weekStart models.WeekStart, loc *time.Location) models.HabitStats {
	effective := FilterEffective(events)
	current := period.Range(now, habit.Period, weekStart, loc)

	progress := 0.0
	for _, ev := range effective {
		if current.Contains(ev.TsClient) {
			progress += ev.Value
		}
	}

	result := models.HabitStats{
		CurrentPeriodProgress: progress,
		AdherenceRate:         AdherenceRate(habit, effective, now, AdherenceWindowDays, weekStart, loc),
		PeriodStart:           current.Start,
		PeriodEnd:             current.End,
	}

	if habit.Type == models.HabitTypeBreak {
		clean := TimeSinceLastFailure(effective, now, loc)
		result.TimeSinceLastFailure = &clean
		result.IsOnPace = !anyEventIn(effective, current)
		return result
	}

	result.Streak = BuildStreak(habit, effective, now, weekStart, loc)
	result.IsOnPace = OnPace(progress, habit.Target, now, current.Start, current.End)
	return result
}

func anyEventIn(events []models.Event, iv period.Interval) bool {
	for _, ev := range events {
		if iv.Contains(ev.TsClient) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
