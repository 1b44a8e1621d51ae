package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// HabitType distinguishes habits you want to grow from habits you want to quit.
type HabitType string

const (
	HabitTypeBuild HabitType = "build"
	HabitTypeBreak HabitType = "break"
)

// Period is the reporting bucket size for a habit.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	// PeriodCustom is accepted and persisted but behaves exactly like
	// PeriodDay. Real custom-cadence semantics were never defined.
	PeriodCustom Period = "custom"
)

// Unit describes what an event's value counts.
type Unit string

const (
	UnitCount   Unit = "count"
	UnitMinutes Unit = "minutes"
	UnitCustom  Unit = "custom"
)

// Visibility controls who can see (and log against) a habit.
type Visibility string

const (
	VisibilityPrivate    Visibility = "private"
	VisibilityHousehold  Visibility = "household"
	VisibilityGroup      Visibility = "group"
	VisibilityPublicLink Visibility = "public_link"
)

// Source records how an event entered the system.
type Source string

const (
	SourceUI      Source = "ui"
	SourceImport  Source = "import"
	SourceWebhook Source = "webhook"
	SourcePuller  Source = "puller"
	SourceOther   Source = "other"
)

// WeekStart is the week-start convention used by weekly period math.
type WeekStart string

const (
	WeekStartMonday WeekStart = "MON"
	WeekStartSunday WeekStart = "SUN"
)

// Valid reports whether ws is one of the two supported conventions.
func (ws WeekStart) Valid() bool {
	return ws == WeekStartMonday || ws == WeekStartSunday
}

// User represents an account. Timezone and WeekStart are profile defaults;
// both may be overridden per request and are always threaded explicitly into
// the statistics core, never read from ambient state.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Color        string     `json:"color,omitempty"`
	Timezone     string     `json:"timezone"`
	WeekStart    WeekStart  `json:"weekStart"`
	PasswordHash string     `json:"-"`
	HouseholdID  *uuid.UUID `json:"householdId,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Household groups users who share household-visible habits. InviteCode
// is how new members join.
type Household struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	CreatedAt  time.Time `json:"created_at"`
	Members    []User    `json:"members,omitempty"`
}

// Habit is a tracked behavior. Habits are archived via Active=false and are
// never hard-deleted in the normal flow.
type Habit struct {
	ID              uuid.UUID  `json:"id"`
	OwnerUserID     uuid.UUID  `json:"ownerUserId"`
	Name            string     `json:"name"`
	Emoji           *string    `json:"emoji,omitempty"`
	Type            HabitType  `json:"type"`
	Target          float64    `json:"target"`
	Period          Period     `json:"period"`
	Unit            Unit       `json:"unit"`
	UnitLabel       *string    `json:"unitLabel,omitempty"`
	Active          bool       `json:"active"`
	Visibility      Visibility `json:"visibility"`
	TemplateKey     *string    `json:"templateKey,omitempty"`
	ScheduleDowMask *int       `json:"scheduleDowMask,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Owner           *User      `json:"owner,omitempty"`
}

// Event is one row of the append-only event log. TsClient is the
// user-asserted occurrence time and drives all period/streak math; TsServer
// is the ingestion time. Events are never mutated after creation; a logged
// event is cancelled only by a later void-control event referencing it
// through Meta.
type Event struct {
	ID       uuid.UUID `json:"id"`
	HabitID  uuid.UUID `json:"habitId"`
	UserID   uuid.UUID `json:"userId"`
	Value    float64   `json:"value"`
	Note     *string   `json:"note,omitempty"`
	TsClient time.Time `json:"tsClient"`
	TsServer time.Time `json:"tsServer"`
	Source   Source    `json:"source"`
	ClientID *string   `json:"clientId,omitempty"`
	Meta     Meta      `json:"meta,omitempty"`
}

// IdempotencyKey represents a stored idempotency key record
type IdempotencyKey struct {
	Key          string          `json:"key"`
	Route        string          `json:"route"`
	UserID       uuid.UUID       `json:"user_id"`
	ResponseBody json.RawMessage `json:"response_body"`
	StatusCode   int             `json:"status_code"`
	CreatedAt    time.Time       `json:"created_at"`
}

// HabitStats is the composite statistics payload for one habit.
// TimeSinceLastFailure is populated for break habits only.
type HabitStats struct {
	Streak                int       `json:"streak"`
	CurrentPeriodProgress float64   `json:"currentPeriodProgress"`
	IsOnPace              bool      `json:"isOnPace"`
	AdherenceRate         float64   `json:"adherenceRate"`
	TimeSinceLastFailure  *int      `json:"timeSinceLastFailure,omitempty"`
	PeriodStart           time.Time `json:"periodStart"`
	PeriodEnd             time.Time `json:"periodEnd"`
}
