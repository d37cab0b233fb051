package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/timetrack/internal/calendar"
	"github.com/roach88/timetrack/internal/register"
	"github.com/roach88/timetrack/internal/testutil"
)

// DefaultLocale is used when a scenario names none.
const DefaultLocale = "en-US"

// Harness executes the steps of one scenario against a register.
type Harness struct {
	reg    *register.Register
	clock  *testutil.ManualClock
	result *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory store with a manual clock set to
// the scenario start, in UTC. Accepted operations reach the trace through a
// register subscription; rejected ones are traced by the harness.
//
// Run returns an error only when the scenario cannot be executed (bad
// start time, storage failure). Failed expectations and assertions are
// reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, zerolog.Nop())
}

// RunWithLogger is Run with a register logger.
func RunWithLogger(scenario *Scenario, logger zerolog.Logger) (*Result, error) {
	ctx := context.Background()

	start, err := time.Parse(time.RFC3339, scenario.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	locale := scenario.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	cal, err := calendar.ForLocale(locale, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid locale: %w", err)
	}

	st, err := register.OpenStore(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		clock:  testutil.NewManualClock(start.UTC()),
		result: NewResult(),
	}
	h.reg = register.New(st,
		register.WithClock(h.clock),
		register.WithCalendar(cal),
		register.WithLogger(logger),
		register.WithIDGenerator(testutil.NewSequentialIDGenerator("harness")),
	)
	h.reg.Subscribe(func(ev register.CheckEvent) {
		h.result.AddTrace(TraceEvent{
			Type:      EventAccepted,
			Operation: string(ev.Record.Operation),
			Moment:    formatMoment(ev.Record.Moment),
			State:     string(ev.State),
		})
	})

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for _, msg := range EvaluateAssertions(ctx, h.reg, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

// executeStep advances the clock, applies the operation and checks the
// expect clause.
func (h *Harness) executeStep(ctx context.Context, index int, step Step) error {
	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		h.clock.Advance(d)
	}

	outcome := EventAccepted
	switch step.Check {
	case CheckAuto:
		if _, err := h.reg.AutoCheck(ctx); err != nil {
			return err
		}
	case CheckManual:
		at, err := time.Parse(time.RFC3339, step.At)
		if err != nil {
			return fmt.Errorf("at: %w", err)
		}
		op, err := register.ParseCheckOperation(step.Op)
		if err != nil {
			return err
		}
		_, err = h.reg.ManualCheck(ctx, at.UnixMilli(), op)
		switch {
		case register.IsInvalidOperation(err):
			outcome = EventRejected
			h.result.AddTrace(TraceEvent{
				Type:      EventRejected,
				Operation: string(op),
				Moment:    formatMoment(at.UnixMilli()),
				State:     string(h.reg.CurrentState()),
			})
		case err != nil:
			return err
		}
	default:
		return fmt.Errorf("unknown check %q", step.Check)
	}

	if step.Expect == nil {
		return nil
	}
	if step.Expect.Outcome != outcome {
		h.result.AddError(fmt.Sprintf("steps[%d]: expected outcome %s, got %s", index, step.Expect.Outcome, outcome))
	}
	if state := h.reg.CurrentState(); step.Expect.State != "" && step.Expect.State != string(state) {
		h.result.AddError(fmt.Sprintf("steps[%d]: expected state %s, got %s", index, step.Expect.State, state))
	}
	return nil
}

func formatMoment(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
