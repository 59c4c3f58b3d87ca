package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRelationMissing is returned when a table is absent, typically a
	// database created by an older build that was never migrated.
	ErrRelationMissing = errors.New("relation missing")
	// ErrRevisionConflict is returned when a task update carries a revision
	// that is not newer than the stored one.
	ErrRevisionConflict = errors.New("revision conflict")
)

// classify maps driver errors onto the package sentinels, keeping the
// driver message.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case strings.Contains(err.Error(), "no such table"):
		return fmt.Errorf("%w: %v", ErrRelationMissing, err)
	}
	return err
}
