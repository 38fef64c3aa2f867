package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorClass partitions database failures by how callers should react.
// Schema and connection faults mean the deployment is broken and must surface
// loudly; data faults are per-row problems a caller may degrade around.
type ErrorClass string

const (
	ErrClassNone       ErrorClass = ""
	ErrClassSchema     ErrorClass = "schema"
	ErrClassConnection ErrorClass = "connection"
	ErrClassData       ErrorClass = "data"
	ErrClassUnknown    ErrorClass = "unknown"
)

// Classify inspects a Postgres error and maps its SQLSTATE class:
// 42xxx (syntax/undefined object) => schema, 08xxx => connection,
// 23xxx (integrity) => data. Errors without a SQLSTATE are unknown.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrClassNone
	}

	code := sqlState(err)
	if code == "" {
		return ErrClassUnknown
	}

	switch code[:2] {
	case "42":
		return ErrClassSchema
	case "08":
		return ErrClassConnection
	case "23":
		return ErrClassData
	default:
		return ErrClassUnknown
	}
}

// IsSchemaOrConnectionError reports whether err indicates a missing relation
// or an unreachable database. These are never degraded into empty results.
func IsSchemaOrConnectionError(err error) bool {
	class := Classify(err)
	return class == ErrClassSchema || class == ErrClassConnection
}

// IsDataError reports whether err is an integrity violation (class 23).
func IsDataError(err error) bool {
	return Classify(err) == ErrClassData
}

// IsNotFound reports whether err is gorm's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper
// looks for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if sqlState(err) == "23505" {
		if constraintName == "" {
			return true
		}
		return strings.Contains(err.Error(), constraintName)
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}

func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && len(pgxErr.Code) == 5 {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && len(pqErr.Code) == 5 {
		return string(pqErr.Code)
	}
	return ""
}
