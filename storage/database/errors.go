package database

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// IsUniqueViolationOn reports whether err comes from a unique constraint covering column.
func IsUniqueViolationOn(err error, column string) bool {
	if !IsUniqueViolation(err) {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return strings.Contains(pqErr.Constraint, column)
	}
	// UNIQUE constraint failed: students.student_no
	return strings.Contains(err.Error(), "."+column)
}

// IsNoRows reports whether err is sql.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
