package infra_postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation = "23505"
	codeInvalidTextRepr = "22P02"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsInvalidTextRepresentation reports whether the server rejected a value
// for the column type, e.g. a malformed key.
func IsInvalidTextRepresentation(err error) bool {
	return hasCode(err, codeInvalidTextRepr)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
