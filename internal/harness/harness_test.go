package harness

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_Workday(t *testing.T) {
	result, err := RunWithGolden(t, loadTestScenario(t, "workday"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Trace, 4)
}

func TestRun_ManualCorrections(t *testing.T) {
	result, err := RunWithGolden(t, loadTestScenario(t, "manual_corrections"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 5)
	assert.Equal(t, EventRejected, result.Trace[0].Type)
	assert.Equal(t, EventRejected, result.Trace[2].Type)
}

func TestRun_TraceSequence(t *testing.T) {
	result, err := Run(loadTestScenario(t, "manual_corrections"))
	require.NoError(t, err)

	for i, ev := range result.Trace {
		assert.Equal(t, int64(i+1), ev.Seq)
	}
}

func TestRun_FailedExpectation(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_expectation
description: the first check-in is expected to be rejected
start: "2022-04-21T09:00:00Z"
steps:
  - check: auto
    expect: {outcome: rejected, state: checked-out}
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected outcome rejected, got accepted")
	assert.Contains(t, result.Errors[1], "expected state checked-out, got checked-in")
}

func TestRun_FailedAssertions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_assertions
description: every assertion is off by one
start: "2022-04-21T09:00:00Z"
steps:
  - check: auto
  - advance: 1h
    check: auto
assertions:
  - type: final_state
    state: checked-in
  - type: operation_count
    count: 3
  - type: frame_count
    frame: week
    count: 1
  - type: worked
    frame: today
    duration: 2h
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "assertions[0]")
	assert.Contains(t, result.Errors[1], "expected 3, got 2")
	assert.Contains(t, result.Errors[2], "1 operations in week")
	assert.Contains(t, result.Errors[3], "got 1h0m0s")
}

func TestRun_WeekFrameFollowsLocale(t *testing.T) {
	// Sunday 2022-04-17: same week as Monday the 18th for en-US, not for en-GB.
	const yaml = `
name: locale_%s
description: a Sunday check-in seen from Monday
start: "2022-04-17T10:00:00Z"
locale: %s
steps:
  - check: auto
  - advance: 24h
    check: auto
assertions:
  - type: frame_count
    frame: week
    count: %d
`
	tests := []struct {
		locale string
		count  int
	}{
		{"en-US", 2},
		{"en-GB", 1},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			s, err := ParseScenario([]byte(fmt.Sprintf(yaml, tt.locale, tt.locale, tt.count)))
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestAssertionError(t *testing.T) {
	err := &AssertionError{Type: AssertFinalState, Expected: "checked-in", Actual: "checked-out"}
	assert.Equal(t, "assertion failed: final_state: expected checked-in, got checked-out", err.Error())
}

func TestMarshalSnapshot(t *testing.T) {
	data, err := MarshalSnapshot(TraceSnapshot{ScenarioName: "empty", Trace: []TraceEvent{}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"scenario_name\": \"empty\",\n  \"trace\": []\n}\n", string(data))
}
