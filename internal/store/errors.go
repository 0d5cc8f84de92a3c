// Package store provides database access for all shopcore entities. Each
// store struct wraps a *sql.DB and exposes typed query methods.
//
// Business failures are classified with the sentinel errors below so
// handlers can pick a status code with errors.Is. Uniqueness is enforced
// twice: pre-flight existence checks produce ErrConflict on the fast
// path, and database unique constraints are the safety net for the
// check-then-write race — a Postgres unique violation is translated to
// ErrConflict rather than surfacing as a server error.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel classifications for business errors. Match with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// Postgres error codes used for constraint-violation translation.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classifiedError pairs a human-readable message with a sentinel so
// errors.Is works while Error() stays clean for API responses.
type classifiedError struct {
	kind    error
	message string
}

func (e *classifiedError) Error() string { return e.message }
func (e *classifiedError) Unwrap() error { return e.kind }

func notFound(format string, args ...any) error {
	return &classifiedError{kind: ErrNotFound, message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &classifiedError{kind: ErrConflict, message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &classifiedError{kind: ErrInvalid, message: fmt.Sprintf(format, args...)}
}

// translateUnique maps a unique-constraint violation to a conflict with
// the given message; any other error is wrapped with op.
func translateUnique(op string, err error, message string) error {
	if isPgCode(err, pgUniqueViolation) {
		return conflict("%s", message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isPgCode reports whether err is a Postgres error with the given code.
func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
