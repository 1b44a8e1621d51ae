package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/metaember/habitsv2/internal/models"
)

type habitRepository struct {
	conn PgConnection
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(conn PgConnection) HabitRepository {
	return &habitRepository{conn: conn}
}

const habitColumns = `id, owner_user_id, name, emoji, type, target, period, unit, unit_label,
	active, visibility, template_key, schedule_dow_mask, created_at, updated_at`

func scanHabitRow(row pgx.Row) (*models.Habit, error) {
	var h models.Habit
	err := row.Scan(&h.ID, &h.OwnerUserID, &h.Name, &h.Emoji, &h.Type, &h.Target,
		&h.Period, &h.Unit, &h.UnitLabel, &h.Active, &h.Visibility,
		&h.TemplateKey, &h.ScheduleDowMask, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}
	return &h, nil
}

func (r *habitRepository) Create(ctx context.Context, habit *models.Habit) error {
	// Use the caller-provided ID when present so imports keep stable IDs
	query := `INSERT INTO habits (owner_user_id, name, emoji, type, target, period, unit,
			unit_label, active, visibility, template_key, schedule_dow_mask)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`
	args := []any{habit.OwnerUserID, habit.Name, habit.Emoji, habit.Type, habit.Target,
		habit.Period, habit.Unit, habit.UnitLabel, habit.Active, habit.Visibility,
		habit.TemplateKey, habit.ScheduleDowMask}
	if habit.ID != uuid.Nil {
		query = `INSERT INTO habits (id, owner_user_id, name, emoji, type, target, period, unit,
			unit_label, active, visibility, template_key, schedule_dow_mask)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`
		args = append([]any{habit.ID}, args...)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	if err := row.Scan(&habit.ID, &habit.CreatedAt, &habit.UpdatedAt); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("creating habit: %w", err)
	}
	return nil
}

func (r *habitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	return scanHabitRow(row)
}

func (r *habitRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE owner_user_id = $1`
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY created_at`

	rows, err := r.conn.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	return collectHabits(rows)
}

func (r *habitRepository) ListHouseholdVisible(ctx context.Context, householdID, excludeUserID uuid.UUID) ([]models.Habit, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT h.id, h.owner_user_id, h.name, h.emoji, h.type, h.target, h.period, h.unit, h.unit_label,
			h.active, h.visibility, h.template_key, h.schedule_dow_mask, h.created_at, h.updated_at
		 FROM habits h
		 JOIN users u ON u.id = h.owner_user_id
		 WHERE u.household_id = $1
		   AND h.owner_user_id <> $2
		   AND h.visibility = 'household'
		   AND h.active
		 ORDER BY h.created_at`,
		householdID, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("listing household habits: %w", err)
	}
	return collectHabits(rows)
}

func (r *habitRepository) Update(ctx context.Context, habit *models.Habit) error {
	ct, err := r.conn.Exec(ctx,
		`UPDATE habits SET name = $1, emoji = $2, target = $3, period = $4, unit = $5,
			unit_label = $6, active = $7, visibility = $8, schedule_dow_mask = $9,
			updated_at = now()
		 WHERE id = $10`,
		habit.Name, habit.Emoji, habit.Target, habit.Period, habit.Unit,
		habit.UnitLabel, habit.Active, habit.Visibility, habit.ScheduleDowMask, habit.ID)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *habitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectHabits(rows pgx.Rows) ([]models.Habit, error) {
	defer rows.Close()

	habits := make([]models.Habit, 0)
	for rows.Next() {
		var h models.Habit
		err := rows.Scan(&h.ID, &h.OwnerUserID, &h.Name, &h.Emoji, &h.Type, &h.Target,
			&h.Period, &h.Unit, &h.UnitLabel, &h.Active, &h.Visibility,
			&h.TemplateKey, &h.ScheduleDowMask, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		habits = append(habits, h)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating habits: %w", rows.Err())
	}
	return habits, nil
}
