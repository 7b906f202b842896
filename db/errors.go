package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentinel errors
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("db: record not found")

	// ErrDuplicateKey is returned on unique constraint violations. The
	// constraint is the final authority on uniqueness: even when a caller
	// pre-checks, a concurrent writer can still lose the race and land here.
	ErrDuplicateKey = errors.New("db: duplicate key")

	// ErrTimeout is returned when a statement exceeds its deadline.
	ErrTimeout = errors.New("db: query timeout")

	// ErrConnectionFailed is returned when the driver cannot reach the server.
	ErrConnectionFailed = errors.New("db: connection failed")
)

// Helpers for type-safe checks via errors.Is().

func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool     { return errors.Is(err, ErrDuplicateKey) }
func IsTimeout(err error) bool          { return errors.Is(err, ErrTimeout) }
func IsConnectionFailed(err error) bool { return errors.Is(err, ErrConnectionFailed) }

// ─────────────────────────────────────────────────────────────────────────────
// StoreError
// ─────────────────────────────────────────────────────────────────────────────

// StoreError pairs a sentinel with the original driver error, so callers can
// use errors.Is(err, ErrDuplicateKey) for control flow and still inspect the
// raw cause when debugging.
type StoreError struct {
	// Sentinel is one of the package-level Err* values.
	Sentinel error
	// Cause is the original driver error.
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *StoreError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *StoreError) Unwrap() error        { return e.Cause }

// ─────────────────────────────────────────────────────────────────────────────
// ErrorMapper
// ─────────────────────────────────────────────────────────────────────────────

// ErrorMapper translates raw driver errors into the package sentinels.
type ErrorMapper interface {
	Map(err error) error
}

// ErrorMapperFunc adapts a function to ErrorMapper.
type ErrorMapperFunc func(error) error

func (f ErrorMapperFunc) Map(err error) error { return f(err) }

// DefaultErrorMapper handles the drivers this service runs against:
// lib/pq in production and mattn/go-sqlite3 in tests.
func DefaultErrorMapper() ErrorMapper {
	return ErrorMapperFunc(defaultMap)
}

func defaultMap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &StoreError{Sentinel: ErrNotFound, Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &StoreError{Sentinel: ErrTimeout, Cause: err}
	}

	// Already mapped — do not double-wrap.
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	if mapped := mapPostgresError(err); mapped != nil {
		return mapped
	}
	if mapped := mapSQLiteError(err); mapped != nil {
		return mapped
	}

	// Dial-level failures (server not up yet, wrong host) never carry a
	// SQLSTATE; they surface as net errors.
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return &StoreError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL (lib/pq)
// ─────────────────────────────────────────────────────────────────────────────

func mapPostgresError(err error) error {
	// Drivers that embed the SQLSTATE in the error text ("(SQLSTATE XXXXX)")
	// are matched on the code. lib/pq reports only the server message, so the
	// stable message prefixes are matched as a fallback. Both paths keep this
	// package free of a hard driver import.
	if mapped := mapBySQLState(sqlStateFromString(err.Error()), err); mapped != nil {
		return mapped
	}
	s := err.Error()
	switch {
	case strings.Contains(s, "duplicate key value violates unique constraint"):
		return &StoreError{Sentinel: ErrDuplicateKey, Cause: err}
	case strings.Contains(s, "canceling statement due to statement timeout"):
		return &StoreError{Sentinel: ErrTimeout, Cause: err}
	case strings.Contains(s, "the database system is starting up"),
		strings.Contains(s, "connection refused"):
		return &StoreError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return nil
}

func sqlStateFromString(s string) string {
	const marker = "(SQLSTATE "
	idx := strings.LastIndex(s, marker)
	if idx < 0 {
		return ""
	}
	rest := s[idx+len(marker):]
	if end := strings.Index(rest, ")"); end >= 0 {
		return rest[:end]
	}
	return rest
}

// SQLSTATE codes: https://www.postgresql.org/docs/current/errcodes-appendix.html
func mapBySQLState(code string, cause error) error {
	switch code {
	case "23505": // unique_violation
		return &StoreError{Sentinel: ErrDuplicateKey, Cause: cause}
	case "57014": // query_canceled (statement_timeout)
		return &StoreError{Sentinel: ErrTimeout, Cause: cause}
	case "08000", "08001", "08003", "08004", "08006", "08007", "08P01":
		return &StoreError{Sentinel: ErrConnectionFailed, Cause: cause}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite (string-based, the driver exports no typed errors)
// ─────────────────────────────────────────────────────────────────────────────

func mapSQLiteError(err error) error {
	s := err.Error()
	switch {
	case strings.Contains(s, "UNIQUE constraint failed"):
		return &StoreError{Sentinel: ErrDuplicateKey, Cause: err}
	case strings.Contains(s, "unable to open database"):
		return &StoreError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return nil
}
