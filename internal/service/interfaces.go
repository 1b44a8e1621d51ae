package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// ParseToken verifies a bearer token and returns the subject user id
	ParseToken(token string) (uuid.UUID, error)
}

// HabitService defines the interface for habit business logic
type HabitService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateHabitRequest) (*models.Habit, error)
	Get(ctx context.Context, viewerID, habitID uuid.UUID) (*models.Habit, error)
	// List returns the viewer's habits plus active household-visible habits
	// of other members
	List(ctx context.Context, viewerID uuid.UUID) ([]models.Habit, error)
	Update(ctx context.Context, viewerID, habitID uuid.UUID, req *models.UpdateHabitRequest) (*models.Habit, error)
}

// EventService defines the interface for event business logic
type EventService interface {
	// Log appends an event. The returned bool is false when an existing
	// event with the same clientId was returned instead of creating one.
	Log(ctx context.Context, userID, habitID uuid.UUID, req *models.CreateEventRequest) (*models.Event, bool, error)
	List(ctx context.Context, viewerID, habitID uuid.UUID, from, to *time.Time) ([]models.Event, error)
	// Void creates the void-control event cancelling eventID. A second void
	// of the same target returns *AlreadyVoidedError.
	Void(ctx context.Context, userID, eventID uuid.UUID, req *models.VoidEventRequest) (*models.Event, error)
}

// StatsService defines the interface for habit statistics
type StatsService interface {
	// ForHabit computes the composite stats payload. tz and weekStart
	// override the viewer's profile defaults when non-empty.
	ForHabit(ctx context.Context, viewerID, habitID uuid.UUID, tz, weekStart string) (*models.HabitStats, error)
}

// CalendarService defines the interface for the calendar heatmap view
type CalendarService interface {
	// Month returns day cells for one habit over one month (YYYY-MM).
	Month(ctx context.Context, viewerID, habitID uuid.UUID, month, tz, weekStart string) (*models.CalendarMonth, error)
}

// HouseholdService defines the interface for household management
type HouseholdService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Household, error)
	Create(ctx context.Context, userID uuid.UUID, req *models.CreateHouseholdRequest) (*models.Household, error)
	Join(ctx context.Context, userID uuid.UUID, req *models.JoinHouseholdRequest) (*models.Household, error)
	AddMember(ctx context.Context, callerID uuid.UUID, req *models.AddMemberRequest) (*models.User, error)
	RemoveMember(ctx context.Context, callerID, memberID uuid.UUID) error
}

// TransferService defines the interface for JSONL import/export
type TransferService interface {
	// Export streams the caller's habits then events as JSONL
	Export(ctx context.Context, userID uuid.UUID, w io.Writer) error
	// Import reads JSONL lines and creates missing habits/events. Re-importing
	// an export is a no-op. dryRun validates without writing.
	Import(ctx context.Context, userID uuid.UUID, r io.Reader, dryRun bool) (*models.ImportReport, error)
}
