// Package repository provides PostgreSQL-backed data access for the
// habits API. Each repository accepts any PgConnection, so tests can
// substitute a mock connection and production code passes a pgxpool.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/metaember/habitsv2/internal/models"
)

// PgConnection is the subset of pgxpool.Pool the repositories use.
type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// SetHousehold moves the user into (or out of, with nil) a household
	SetHousehold(ctx context.Context, userID uuid.UUID, householdID *uuid.UUID) error
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.User, error)
}

// HouseholdRepository defines persistence operations for households
type HouseholdRepository interface {
	Create(ctx context.Context, household *models.Household) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Household, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Household, error)
}

// HabitRepository defines persistence operations for habits
type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error)
	// ListByOwner returns the owner's habits, optionally including inactive ones
	ListByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.Habit, error)
	// ListHouseholdVisible returns active household-visible habits owned by
	// other members of the household
	ListHouseholdVisible(ctx context.Context, householdID, excludeUserID uuid.UUID) ([]models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventRepository defines persistence operations for events. The events
// table is append-only: there is no update or delete.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	// GetByClientID looks up an event by its client-generated dedupe key.
	// Returns ErrNotFound when no such event exists.
	GetByClientID(ctx context.Context, habitID uuid.UUID, clientID string) (*models.Event, error)
	// ListByHabit returns events for a habit ordered by client timestamp.
	// from/to bound ts_client as a half-open interval when non-nil.
	ListByHabit(ctx context.Context, habitID uuid.UUID, from, to *time.Time) ([]models.Event, error)
	// ListByUser returns every event the user logged, for export
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	// GetVoidOf returns the void event targeting targetID, or ErrNotFound
	GetVoidOf(ctx context.Context, habitID uuid.UUID, targetID string) (*models.Event, error)
	// ExistsDuplicate reports whether an event with the same habit, client
	// timestamp, value and client id already exists. Used by import dedup.
	ExistsDuplicate(ctx context.Context, event *models.Event) (bool, error)
}

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// Get retrieves an existing idempotency record if it exists
	Get(ctx context.Context, key, route string, userID uuid.UUID) (*models.IdempotencyKey, error)

	// Store saves a new idempotency record
	Store(ctx context.Context, key, route string, userID uuid.UUID, responseBody []byte, statusCode int) error
}
