package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/metaember/habitsv2/internal/models"
)

type eventRepository struct {
	conn PgConnection
}

// NewEventRepository creates a new event repository
func NewEventRepository(conn PgConnection) EventRepository {
	return &eventRepository{conn: conn}
}

const eventColumns = `id, habit_id, user_id, value, note, ts_client, ts_server, source, client_id, meta`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.HabitID, &e.UserID, &e.Value, &e.Note,
		&e.TsClient, &e.TsServer, &e.Source, &e.ClientID, &e.Meta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}
	return &e, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	// Callers may supply id and ts_server so imports keep stable identities
	// and timestamps; absent values fall to the column defaults.
	cols := []string{"habit_id", "user_id", "value", "note", "ts_client", "source", "client_id", "meta"}
	args := []any{event.HabitID, event.UserID, event.Value, event.Note,
		event.TsClient, event.Source, event.ClientID, event.Meta}
	if event.ID != uuid.Nil {
		cols = append(cols, "id")
		args = append(args, event.ID)
	}
	if !event.TsServer.IsZero() {
		cols = append(cols, "ts_server")
		args = append(args, event.TsServer)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := `INSERT INTO events (` + strings.Join(cols, ", ") + `)
		 VALUES (` + strings.Join(placeholders, ", ") + `)
		 RETURNING ` + eventColumns

	row := r.conn.QueryRow(ctx, query, args...)
	created, err := scanEvent(row)
	if err != nil {
		if mapped := mapPgError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return created, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (r *eventRepository) GetByClientID(ctx context.Context, habitID uuid.UUID, clientID string) (*models.Event, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE habit_id = $1 AND client_id = $2`,
		habitID, clientID)
	return scanEvent(row)
}

func (r *eventRepository) ListByHabit(ctx context.Context, habitID uuid.UUID, from, to *time.Time) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE habit_id = $1`
	args := []any{habitID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND ts_client >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND ts_client < $%d`, len(args))
	}
	query += ` ORDER BY ts_client`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return collectEvents(rows)
}

func (r *eventRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = $1 ORDER BY ts_client`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user events: %w", err)
	}
	return collectEvents(rows)
}

func (r *eventRepository) GetVoidOf(ctx context.Context, habitID uuid.UUID, targetID string) (*models.Event, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE habit_id = $1 AND meta->>'kind' = 'void' AND meta->>'void_of' = $2
		 LIMIT 1`, habitID, targetID)
	return scanEvent(row)
}

func (r *eventRepository) ExistsDuplicate(ctx context.Context, event *models.Event) (bool, error) {
	var exists bool
	row := r.conn.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM events
			WHERE habit_id = $1 AND ts_client = $2 AND value = $3
			  AND client_id IS NOT DISTINCT FROM $4
		)`, event.HabitID, event.TsClient, event.Value, event.ClientID)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("checking for duplicate event: %w", err)
	}
	return exists, nil
}

func collectEvents(rows pgx.Rows) ([]models.Event, error) {
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		err := rows.Scan(&e.ID, &e.HabitID, &e.UserID, &e.Value, &e.Note,
			&e.TsClient, &e.TsServer, &e.Source, &e.ClientID, &e.Meta)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating events: %w", rows.Err())
	}
	return events, nil
}
