package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/metaember/habitsv2/internal/models"
)

type idempotencyRepository struct {
	conn PgConnection
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(conn PgConnection) IdempotencyRepository {
	return &idempotencyRepository{conn: conn}
}

func (r *idempotencyRepository) Get(ctx context.Context, key, route string, userID uuid.UUID) (*models.IdempotencyKey, error) {
	var rec models.IdempotencyKey
	row := r.conn.QueryRow(ctx,
		`SELECT key, route, user_id, response_body, status_code, created_at
		 FROM idempotency_keys
		 WHERE key = $1 AND route = $2 AND user_id = $3`,
		key, route, userID)
	err := row.Scan(&rec.Key, &rec.Route, &rec.UserID, &rec.ResponseBody, &rec.StatusCode, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Not found is not an error for replay lookups
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query idempotency key: %w", err)
	}
	return &rec, nil
}

func (r *idempotencyRepository) Store(ctx context.Context, key, route string, userID uuid.UUID, responseBody []byte, statusCode int) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO idempotency_keys (key, route, user_id, response_body, status_code)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key, route, user_id) DO NOTHING`,
		key, route, userID, responseBody, statusCode)
	if err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}
