package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	sqlStateExclusionViolation   = "23P01"
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsExclusionViolation is true when an EXCLUDE constraint rejected the write, i.e. an
// overlapping row already exists.
func IsExclusionViolation(err error) bool {
	return pgCode(err) == sqlStateExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == sqlStateUniqueViolation || errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsSerializationFailure covers the retryable aborts of SERIALIZABLE transactions.
func IsSerializationFailure(err error) bool {
	code := pgCode(err)
	return code == sqlStateSerializationFailure || code == sqlStateDeadlockDetected
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
