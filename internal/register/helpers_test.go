package register

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/timetrack/internal/calendar"
	"github.com/roach88/timetrack/internal/store"
	"github.com/roach88/timetrack/internal/testutil"
)

// Thursday 2022-04-21 17:00 UTC; weeks start on Sunday the 17th.
var start = time.Date(2022, time.April, 21, 17, 0, 0, 0, time.UTC)

type fixture struct {
	reg   *Register
	clock *testutil.ManualClock
	store *store.Store[CheckEventRecord]
	path  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checks.db")
	s, err := OpenStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := testutil.NewManualClock(start)
	reg := New(s,
		WithClock(clock),
		WithCalendar(calendar.New(calendar.WithLocation(time.UTC))),
		WithIDGenerator(testutil.NewSequentialIDGenerator("sub")),
	)
	return &fixture{reg: reg, clock: clock, store: s, path: path}
}

// at returns the Unix milliseconds of a UTC wall time.
func at(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC).UnixMilli()
}

// flakyStore fails Add while failing is set.
type flakyStore struct {
	EventStore

	mu      sync.Mutex
	failing bool
}

var errDiskFull = errors.New("disk full")

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *flakyStore) Add(ctx context.Context, rec CheckEventRecord) (store.Record[CheckEventRecord], error) {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()
	if failing {
		return store.Record[CheckEventRecord]{}, errDiskFull
	}
	return f.EventStore.Add(ctx, rec)
}

// recorder collects events delivered to a subscriber.
type recorder struct {
	mu     sync.Mutex
	events []CheckEvent
}

func (r *recorder) listen(ev CheckEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) got() []CheckEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CheckEvent, len(r.events))
	copy(out, r.events)
	return out
}
