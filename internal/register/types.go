package register

import (
	"fmt"
	"strings"
	"time"
)

// CheckOperation is the kind of a check event.
type CheckOperation string

const (
	// CheckIn starts a tracked interval.
	CheckIn CheckOperation = "check-in"

	// CheckOut ends a tracked interval.
	CheckOut CheckOperation = "check-out"
)

// ResultingState returns the state the register is in after op.
func (op CheckOperation) ResultingState() CheckState {
	if op == CheckIn {
		return CheckedIn
	}
	return CheckedOut
}

// Valid reports whether op is one of the known operations.
func (op CheckOperation) Valid() bool {
	return op == CheckIn || op == CheckOut
}

// ParseCheckOperation accepts "check-in"/"in"/"checkin" and the check-out
// equivalents, case-insensitively.
func ParseCheckOperation(s string) (CheckOperation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "check-in", "checkin", "in":
		return CheckIn, nil
	case "check-out", "checkout", "out":
		return CheckOut, nil
	}
	return "", fmt.Errorf("unknown check operation %q", s)
}

// CheckState is the state of a register.
type CheckState string

const (
	CheckedIn  CheckState = "checked-in"
	CheckedOut CheckState = "checked-out"
)

// NextOperation returns the only operation accepted in state s.
func (s CheckState) NextOperation() CheckOperation {
	if s == CheckedIn {
		return CheckOut
	}
	return CheckIn
}

// CheckEventRecord is one accepted check operation. It is a value: copies
// are handed to the store and to subscribers.
type CheckEventRecord struct {
	// Moment is the Unix time of the operation in milliseconds.
	Moment    int64          `json:"moment"`
	Operation CheckOperation `json:"operation"`
}

// NewCheckEventRecord builds a record at t.
func NewCheckEventRecord(t time.Time, op CheckOperation) CheckEventRecord {
	return CheckEventRecord{Moment: t.UnixMilli(), Operation: op}
}

// Time returns Moment as a time.Time in the local location.
func (r CheckEventRecord) Time() time.Time {
	return time.UnixMilli(r.Moment)
}

// CheckEvent is delivered to subscribers after an operation is accepted.
type CheckEvent struct {
	Record CheckEventRecord
	State  CheckState
}

// TemporalFrame selects a query window relative to now.
type TemporalFrame string

const (
	Today     TemporalFrame = "today"
	ThisWeek  TemporalFrame = "week"
	ThisMonth TemporalFrame = "month"
	All       TemporalFrame = "all"

	// ThisDay is an alias of Today.
	ThisDay = Today
)

// TemporalFrames lists the frames in widening order.
var TemporalFrames = []TemporalFrame{Today, ThisWeek, ThisMonth, All}

// ParseTemporalFrame accepts the frame names plus "day", "this-week" and
// "this-month".
func ParseTemporalFrame(s string) (TemporalFrame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "day", "this-day":
		return Today, nil
	case "week", "this-week":
		return ThisWeek, nil
	case "month", "this-month":
		return ThisMonth, nil
	case "all":
		return All, nil
	}
	return "", fmt.Errorf("unknown temporal frame %q", s)
}
