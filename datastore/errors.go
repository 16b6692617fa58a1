package datastore

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup or targeted update matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert collides with a unique key.
	ErrDuplicate = errors.New("record already exists")
)

// pqUniqueViolation is the SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
