// Package postgres implements the repository interfaces against PostgreSQL
// using pgxpool.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"community-portal/internal/repository"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// asDuplicate converts unique-violation errors into repository.DuplicateError,
// mapping the constraint name to the user-facing field. Other errors pass
// through unchanged.
func asDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return &repository.DuplicateError{Field: "username"}
	case "users_email_key", "newsletter_subscriptions_email_key":
		return &repository.DuplicateError{Field: "email"}
	case "profiles_user_id_key":
		return &repository.DuplicateError{Field: "user_id"}
	}
	return &repository.DuplicateError{Field: pgErr.ConstraintName}
}
