package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// CodeUniqueViolation is the PostgreSQL unique_violation error code
const CodeUniqueViolation = "23505"

// IsDuplicateConstraintError reports whether err is a unique violation of
// constraintName. An empty constraintName matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != CodeUniqueViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}
