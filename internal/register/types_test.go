package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOperation_ResultingState(t *testing.T) {
	assert.Equal(t, CheckedIn, CheckIn.ResultingState())
	assert.Equal(t, CheckedOut, CheckOut.ResultingState())
}

func TestCheckState_NextOperation(t *testing.T) {
	assert.Equal(t, CheckOut, CheckedIn.NextOperation())
	assert.Equal(t, CheckIn, CheckedOut.NextOperation())
}

func TestParseCheckOperation(t *testing.T) {
	for in, want := range map[string]CheckOperation{
		"check-in": CheckIn, "IN": CheckIn, "checkin": CheckIn,
		"check-out": CheckOut, " out ": CheckOut, "CheckOut": CheckOut,
	} {
		got, err := ParseCheckOperation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCheckOperation("lunch")
	assert.Error(t, err)
}

func TestParseTemporalFrame(t *testing.T) {
	for in, want := range map[string]TemporalFrame{
		"today": Today, "day": Today, "week": ThisWeek,
		"this-month": ThisMonth, "ALL": All,
	} {
		got, err := ParseTemporalFrame(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTemporalFrame("year")
	assert.Error(t, err)
}

func TestCheckEventRecord_Time(t *testing.T) {
	rec := NewCheckEventRecord(start, CheckIn)
	assert.Equal(t, start.UnixMilli(), rec.Moment)
	assert.True(t, rec.Time().Equal(start))
	assert.True(t, CheckIn.Valid())
	assert.False(t, CheckOperation("x").Valid())
}

func TestError_Messages(t *testing.T) {
	rec := CheckEventRecord{Moment: 5, Operation: CheckOut}

	invalid := &Error{Code: ErrCodeInvalidOperation, Record: rec, Expected: CheckIn}
	assert.Contains(t, invalid.Error(), "INVALID_OPERATION")
	assert.Contains(t, invalid.Error(), "expected check-in")

	persist := &Error{Code: ErrCodePersistence, Record: rec, Err: errDiskFull}
	assert.Contains(t, persist.Error(), "disk full")
	assert.ErrorIs(t, persist, errDiskFull)
}
