package register

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes register errors.
type ErrorCode string

const (
	// ErrCodeInvalidOperation indicates a manual record failed validation:
	// it was dated in the future or broke the alternation. Callers should
	// re-read NextCheckOperation and retry.
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// ErrCodePersistence indicates the store rejected the record. No state
	// changed, so the whole operation can be retried.
	ErrCodePersistence ErrorCode = "PERSISTENCE"
)

// Error is returned by AutoCheck and ManualCheck.
type Error struct {
	Code ErrorCode

	// Record is the record that was rejected.
	Record CheckEventRecord

	// Expected is the operation the register would have accepted.
	Expected CheckOperation

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeInvalidOperation:
		return fmt.Sprintf("%s: %s at %d rejected (expected %s, not after now)",
			e.Code, e.Record.Operation, e.Record.Moment, e.Expected)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s at %d not stored: %v", e.Code, e.Record.Operation, e.Record.Moment, e.Err)
		}
		return fmt.Sprintf("%s: %s at %d not stored", e.Code, e.Record.Operation, e.Record.Moment)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidOperation reports whether err is a rejected manual record.
func IsInvalidOperation(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidOperation
	}
	return false
}

// IsPersistence reports whether err is a store failure during accept.
func IsPersistence(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodePersistence
	}
	return false
}
