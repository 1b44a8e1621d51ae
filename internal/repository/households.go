package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/metaember/habitsv2/internal/models"
)

type householdRepository struct {
	conn PgConnection
}

// NewHouseholdRepository creates a new household repository
func NewHouseholdRepository(conn PgConnection) HouseholdRepository {
	return &householdRepository{conn: conn}
}

func scanHousehold(row pgx.Row) (*models.Household, error) {
	var h models.Household
	if err := row.Scan(&h.ID, &h.Name, &h.InviteCode, &h.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning household: %w", err)
	}
	return &h, nil
}

func (r *householdRepository) Create(ctx context.Context, household *models.Household) error {
	row := r.conn.QueryRow(ctx,
		`INSERT INTO households (name, invite_code) VALUES ($1, $2)
		 RETURNING id, created_at`,
		household.Name, household.InviteCode)

	if err := row.Scan(&household.ID, &household.CreatedAt); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("creating household: %w", err)
	}
	return nil
}

func (r *householdRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Household, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, name, invite_code, created_at FROM households WHERE id = $1`, id)
	return scanHousehold(row)
}

func (r *householdRepository) GetByInviteCode(ctx context.Context, code string) (*models.Household, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, name, invite_code, created_at FROM households WHERE invite_code = $1`, code)
	return scanHousehold(row)
}
