package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/metaember/habitsv2/internal/models"
)

type userRepository struct {
	conn PgConnection
}

// NewUserRepository creates a new user repository
func NewUserRepository(conn PgConnection) UserRepository {
	return &userRepository{conn: conn}
}

const userColumns = `id, email, name, color, timezone, week_start, password_hash, household_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Color, &u.Timezone, &u.WeekStart,
		&u.PasswordHash, &u.HouseholdID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	row := r.conn.QueryRow(ctx,
		`INSERT INTO users (email, name, color, timezone, week_start, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		user.Email, user.Name, user.Color, user.Timezone, user.WeekStart, user.PasswordHash)

	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	ct, err := r.conn.Exec(ctx,
		`UPDATE users SET name = $1, color = $2, timezone = $3, week_start = $4, updated_at = now()
		 WHERE id = $5`,
		user.Name, user.Color, user.Timezone, user.WeekStart, user.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) SetHousehold(ctx context.Context, userID uuid.UUID, householdID *uuid.UUID) error {
	ct, err := r.conn.Exec(ctx,
		`UPDATE users SET household_id = $1, updated_at = now() WHERE id = $2`,
		householdID, userID)
	if err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("setting user household: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.User, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE household_id = $1 ORDER BY created_at`, householdID)
	if err != nil {
		return nil, fmt.Errorf("listing household members: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		err = rows.Scan(&u.ID, &u.Email, &u.Name, &u.Color, &u.Timezone, &u.WeekStart,
			&u.PasswordHash, &u.HouseholdID, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning household member: %w", err)
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating household members: %w", rows.Err())
	}
	return users, nil
}
