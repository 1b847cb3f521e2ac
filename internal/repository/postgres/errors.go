package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error code for unique_violation.
const uniqueViolationCode = "23505"

// uniqueViolation reports whether err is a unique-constraint violation and,
// if so, which constraint was hit.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return pqErr.Constraint, true
	}
	return "", false
}
