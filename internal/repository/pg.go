package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by repositories. Services map these onto
// HTTP-level failures.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrForeignKey        = errors.New("referenced record does not exist")
	ErrDuplicateClientID = errors.New("event with client id already exists")
	ErrCheckViolation    = errors.New("record violates a database constraint")
)

// Postgres error codes we translate to sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapPgError converts well-known postgres constraint violations into
// sentinel errors, passing everything else through unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == "idx_events_client_dedupe" {
				return ErrDuplicateClientID
			}
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		case pgCheckViolation:
			return ErrCheckViolation
		}
	}
	return err
}
