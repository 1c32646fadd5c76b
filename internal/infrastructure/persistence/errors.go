package persistence

import (
	"errors"
	"strings"

	"github.com/supermercado/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique constraint violation.
// TranslateError covers the postgres driver; the string checks cover drivers
// that do not implement the translator and errors that were wrapped.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyErr reports whether err is a foreign key violation.
func IsForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// translateError converts driver errors into domain errors. Anything it does
// not recognise is returned unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case IsDuplicateKeyErr(err):
		return shared.ErrDuplicateRecord
	case IsForeignKeyErr(err):
		return shared.NewValidationError("The record references missing data or is still referenced by other records")
	}
	return err
}
