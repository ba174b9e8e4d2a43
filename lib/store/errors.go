package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// IntegrityError wraps a constraint violation reported by the database, such
// as an appearance pointing at an episode or guest that does not exist.
type IntegrityError struct {
	Err error
}

func (e *IntegrityError) Error() string {
	return "integrity error: " + e.Err.Error()
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// isForeignKeyViolation recognises both the translated gorm error and the raw
// driver error, since translation depends on the dialector.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
