package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrValidation indicates input rejected before any write.
	ErrValidation = errors.New("validation failed")
)

// IsStorageError reports whether err is a read/write failure of the catalog
// itself, as opposed to a missing row or rejected input.
func IsStorageError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrValidation) &&
		!errors.Is(err, ErrDuplicate)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mapSQLiteError converts SQLite errors to the package's sentinel errors.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}

// checkAffected turns a zero-row update or delete into ErrNotFound.
func checkAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
