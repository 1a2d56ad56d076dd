// Package repository implements the data access layer for the application.
package repository

import (
	"strings"

	"cadence/internal/models"
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports
	// "UNIQUE constraint failed" in tests.
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isSerializationError checks if a DB error is a transaction serialization
// failure (SQLSTATE 40001) or deadlock (40P01). Both are retryable.
func isSerializationError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40p01") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "database is locked")
}

// translateWriteError maps low-level DB errors from a write into AppErrors.
func translateWriteError(err error, resource, field string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueConstraintError(err):
		return models.NewDuplicateKeyError(resource, field)
	case isSerializationError(err):
		return models.NewConflictError("concurrent write conflict", err)
	default:
		return models.NewInternalError(err)
	}
}
