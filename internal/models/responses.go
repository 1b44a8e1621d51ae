package models

import "github.com/google/uuid"

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID uuid.UUID `json:"uid"`
	Token  string    `json:"token,omitempty"`
	User   *User     `json:"user,omitempty"`
}

// CalendarDay is one heatmap cell. Intensity is progress clamped to [0,1]
// so clients can shade without knowing the target.
type CalendarDay struct {
	Date      string  `json:"date"`
	Total     float64 `json:"total"`
	Progress  float64 `json:"progress"`
	Success   bool    `json:"success"`
	Intensity float64 `json:"intensity"`
}

// CalendarMonth is the calendar view for one habit over one month.
type CalendarMonth struct {
	Month   string        `json:"month"`
	HabitID uuid.UUID     `json:"habitId"`
	Days    []CalendarDay `json:"days"`
}

// ImportLineError reports a single rejected line of a JSONL import.
type ImportLineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportReport summarizes a JSONL import run. With DryRun set nothing was
// written; counts reflect what a real run would have done.
type ImportReport struct {
	DryRun  bool              `json:"dryRun"`
	Lines   int               `json:"lines"`
	Habits  int               `json:"habits"`
	Events  int               `json:"events"`
	Skipped int               `json:"skipped"`
	Errors  []ImportLineError `json:"errors,omitempty"`
}
