package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/timetrack/internal/register"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against reg and returns the
// failure messages. An empty result means all assertions held.
func EvaluateAssertions(ctx context.Context, reg *register.Register, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(ctx, reg, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(ctx context.Context, reg *register.Register, a Assertion) error {
	switch a.Type {
	case AssertFinalState:
		return assertFinalState(reg, a)
	case AssertOperationCount:
		return assertOperationCount(ctx, reg, a)
	case AssertFrameCount:
		return assertFrameCount(ctx, reg, a)
	case AssertWorked:
		return assertWorked(ctx, reg, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertFinalState(reg *register.Register, a Assertion) error {
	if got := reg.CurrentState(); string(got) != a.State {
		return &AssertionError{Type: a.Type, Expected: a.State, Actual: string(got)}
	}
	return nil
}

func assertOperationCount(ctx context.Context, reg *register.Register, a Assertion) error {
	n, err := reg.OperationCount(ctx)
	if err != nil {
		return err
	}
	if n != a.Count {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Count), Actual: fmt.Sprint(n)}
	}
	return nil
}

func assertFrameCount(ctx context.Context, reg *register.Register, a Assertion) error {
	frame, err := register.ParseTemporalFrame(a.Frame)
	if err != nil {
		return err
	}
	recs, err := reg.FindOperations(ctx, frame)
	if err != nil {
		return err
	}
	if len(recs) != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d operations in %s", a.Count, frame),
			Actual:   fmt.Sprint(len(recs)),
		}
	}
	return nil
}

func assertWorked(ctx context.Context, reg *register.Register, a Assertion) error {
	frame, err := register.ParseTemporalFrame(a.Frame)
	if err != nil {
		return err
	}
	want, err := time.ParseDuration(a.Duration)
	if err != nil {
		return err
	}
	report, err := reg.Worked(ctx, frame)
	if err != nil {
		return err
	}
	if report.Total != want {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s worked in %s", want, frame),
			Actual:   report.Total.String(),
		}
	}
	return nil
}
