// Package stats turns a habit's raw event log into the statistics the API
// serves: build streaks, time clean for break habits, pacing and rolling
// adherence. Every function is a pure computation over inputs supplied by
// the caller; the clock, timezone and week-start convention are always
// explicit parameters.
package stats

import "github.com/metaember/habitsv2/internal/models"

// FilterEffective returns the events that actually count: void-control
// events are removed, and so is any event named as the target of one.
// A void referencing an unknown id is inert. The filter preserves input
// order, never mutates its input, and is idempotent.
func FilterEffective(events []models.Event) []models.Event {
	voided := make(map[string]struct{})
	for i := range events {
		if target := events[i].VoidTarget(); target != "" {
			voided[target] = struct{}{}
		}
	}

	effective := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if ev.IsVoid() {
			continue
		}
		if _, ok := voided[ev.ID.String()]; ok {
			continue
		}
		effective = append(effective, ev)
	}
	return effective
}
