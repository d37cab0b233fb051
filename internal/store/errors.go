package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeStoreOpen indicates the engine could not be initialized
	// (permissions, quota, corruption, invalid index declarations).
	// The store instance is unusable; callers must open it again.
	ErrCodeStoreOpen ErrorCode = "STORE_OPEN"

	// ErrCodeUnknownIndex indicates a query named an index that was never
	// declared. This is a caller bug and is not retryable.
	ErrCodeUnknownIndex ErrorCode = "UNKNOWN_INDEX"

	// ErrCodeNotFound indicates an expected absence (empty store, no match).
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeWrite indicates an insert was rejected, typically by a unique
	// index. The store is left unchanged.
	ErrCodeWrite ErrorCode = "WRITE"
)

// Error is returned by every Store operation that fails.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the store operation that failed ("open", "add", ...).
	Op string

	// Index names the index involved, if any.
	Index string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("store %s: %s", e.Op, e.Code)
	if e.Index != "" {
		msg += fmt.Sprintf(" (index=%s)", e.Index)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

func indexError(code ErrorCode, op, index string, err error) *Error {
	return &Error{Code: code, Op: op, Index: index, Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsStoreOpen reports whether err is a store open failure.
func IsStoreOpen(err error) bool { return hasCode(err, ErrCodeStoreOpen) }

// IsUnknownIndex reports whether err names an undeclared index.
func IsUnknownIndex(err error) bool { return hasCode(err, ErrCodeUnknownIndex) }

// IsNotFound reports whether err is an expected absence.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsWrite reports whether err is a rejected insert.
func IsWrite(err error) bool { return hasCode(err, ErrCodeWrite) }

// IsUniqueViolation reports whether err was caused by a unique index
// rejecting a duplicate value.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
