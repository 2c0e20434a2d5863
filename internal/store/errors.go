package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ErrorKind tells the application how to react to a store failure.
type ErrorKind string

const (
	// KindRetryable covers transient I/O conditions (busy, locked, disk full).
	// The operation may succeed if submitted again.
	KindRetryable ErrorKind = "RETRYABLE"

	// KindRequiresReset indicates corrupted or incompatible persisted state.
	// Recovery requires RecreateTables, which discards all data.
	KindRequiresReset ErrorKind = "REQUIRES_RESET"

	// KindMalformedRow indicates a row that does not match its table mapping.
	// This is a schema mismatch; it also requires a reset.
	KindMalformedRow ErrorKind = "MALFORMED_ROW"
)

// Error is a classified store failure.
type Error struct {
	// Kind is the failure category.
	Kind ErrorKind

	// Op names the store operation that failed (e.g. "open", "insert").
	Op string

	// Table is the affected table, if any.
	Table string

	// Err is the underlying driver or mapping error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Table, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if err is a transient store failure.
// Uses errors.As to handle wrapped errors.
func IsRetryable(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindRetryable
	}
	return false
}

// RequiresReset returns true if err means the persisted state is unusable
// and only RecreateTables can recover. Malformed rows count as well.
func RequiresReset(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindRequiresReset || se.Kind == KindMalformedRow
	}
	return false
}

// IsMalformedRow returns true if err was caused by a row that does not match
// its table mapping.
func IsMalformedRow(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindMalformedRow
	}
	return false
}

// classify wraps a driver error into an *Error. Errors that are already
// classified are returned unchanged.
func classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: kindOf(err), Op: op, Table: table, Err: err}
}

// kindOf maps sqlite result codes to an ErrorKind.
func kindOf(err error) ErrorKind {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return KindRetryable
	}
	switch sqliteErr.Code {
	case sqlite3.ErrCorrupt, sqlite3.ErrNotADB, sqlite3.ErrFormat:
		return KindRequiresReset
	case sqlite3.ErrError:
		// A missing table or column means the file does not carry our schema.
		msg := sqliteErr.Error()
		if strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column") {
			return KindRequiresReset
		}
		return KindRetryable
	default:
		return KindRetryable
	}
}

func malformedRow(table string, err error) *Error {
	return &Error{Kind: KindMalformedRow, Op: "read", Table: table, Err: err}
}
