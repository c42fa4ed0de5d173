package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound no row / entry with the requested id
	ErrNotFound = errors.New("not found")
	// ErrConflict unique constraint violated (e.g. duplicate username) or the
	// row changed since it was read
	ErrConflict = errors.New("conflict")
)

// isUniqueViolation reports a Postgres 23505 error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
