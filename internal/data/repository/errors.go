package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is matched by every unique-constraint violation.
	ErrDuplicate = errors.New("already exists")

	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("not found")
)

const uniqueViolation = "23505"

// DuplicateError names the field whose unique constraint was violated.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// asDuplicate converts a unique violation into a DuplicateError. Constraint
// names follow the <table>_<column>_key convention used by the migrations.
func asDuplicate(err error, table string) (*DuplicateError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil, false
	}

	field := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, table+"_"), "_key")
	if field == "" {
		field = "record"
	}
	return &DuplicateError{Field: field}, true
}
