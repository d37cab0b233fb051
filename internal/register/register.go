package register

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roach88/timetrack/internal/calendar"
	"github.com/roach88/timetrack/internal/store"
)

// Register tracks the check state of one user.
//
// INVARIANTS:
//   - state is CheckedOut until the first accepted operation
//   - state always equals last.Operation.ResultingState() once hasLast is set
//   - pending only grows
type Register struct {
	store    EventStore
	clock    Clock
	calendar *calendar.Calendar
	logger   zerolog.Logger
	ids      IDGenerator
	subs     listeners

	mu         sync.Mutex
	state      CheckState
	last       CheckEventRecord
	hasLast    bool
	lastChange int64
	hasChange  bool
	pending    int
}

// Option configures a Register.
type Option func(*Register)

// WithClock sets the wall clock. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(r *Register) {
		r.clock = c
	}
}

// WithCalendar sets the calendar used for temporal frames.
// Default: calendar.New() (local time, weeks start on Sunday).
func WithCalendar(c *calendar.Calendar) Option {
	return func(r *Register) {
		r.calendar = c
	}
}

// WithLogger sets the logger. Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(r *Register) {
		r.logger = l
	}
}

// WithIDGenerator sets the subscription id generator. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Register) {
		r.ids = g
	}
}

// New creates a Register persisting to s, in the initial CheckedOut state.
// Use Resume to continue from the events already in s.
func New(s EventStore, opts ...Option) *Register {
	r := &Register{
		store:    s,
		clock:    SystemClock{},
		calendar: calendar.New(),
		logger:   zerolog.Nop(),
		ids:      UUIDv7Generator{},
		state:    CheckedOut,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CurrentState returns the current check state.
func (r *Register) CurrentState() CheckState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// NextCheckOperation returns the only operation the register will accept.
func (r *Register) NextCheckOperation() CheckOperation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.NextOperation()
}

// LastCheckOperation returns the last accepted record, if any.
func (r *Register) LastCheckOperation() (CheckEventRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.hasLast
}

// LastCheckOperationMoment returns the moment of the last accepted record.
func (r *Register) LastCheckOperationMoment() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last.Moment, r.hasLast
}

// LastChange returns the moment of the last state change.
func (r *Register) LastChange() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastChange, r.hasChange
}

// PendingSyncCount returns the number of operations accepted by this
// register and not yet synchronized. Nothing synchronizes yet, so it only
// grows.
func (r *Register) PendingSyncCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// LastSynchronization returns the time of the last synchronization.
// Synchronization is not implemented; the result is always absent.
func (r *Register) LastSynchronization() (int64, bool) {
	return 0, false
}

// Validate reports whether rec would be accepted now: it is not dated in
// the future and its operation is NextCheckOperation.
func (r *Register) Validate(rec CheckEventRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.validateLocked(rec)
}

func (r *Register) validateLocked(rec CheckEventRecord) bool {
	return rec.Moment <= r.clock.Now().UnixMilli() && rec.Operation == r.state.NextOperation()
}

// AutoCheck records NextCheckOperation at the current time.
func (r *Register) AutoCheck(ctx context.Context) (CheckEventRecord, error) {
	r.mu.Lock()
	rec := NewCheckEventRecord(r.clock.Now(), r.state.NextOperation())
	state, err := r.applyLocked(ctx, rec)
	r.mu.Unlock()
	if err != nil {
		return CheckEventRecord{}, err
	}

	r.subs.notify(CheckEvent{Record: rec, State: state})
	return rec, nil
}

// ManualCheck records op at moment (Unix milliseconds).
//
// Returns an ErrCodeInvalidOperation error when moment is in the future or
// op is not NextCheckOperation. Validation and acceptance happen under the
// same lock, so the record is checked against the state it is applied to.
func (r *Register) ManualCheck(ctx context.Context, moment int64, op CheckOperation) (CheckEventRecord, error) {
	rec := CheckEventRecord{Moment: moment, Operation: op}

	r.mu.Lock()
	if !r.validateLocked(rec) {
		expected := r.state.NextOperation()
		r.mu.Unlock()
		logCheckRejected(r.logger, rec, expected)
		return CheckEventRecord{}, &Error{Code: ErrCodeInvalidOperation, Record: rec, Expected: expected}
	}
	state, err := r.applyLocked(ctx, rec)
	r.mu.Unlock()
	if err != nil {
		return CheckEventRecord{}, err
	}

	r.subs.notify(CheckEvent{Record: rec, State: state})
	return rec, nil
}

// applyLocked persists rec and then mutates state. r.mu must be held.
func (r *Register) applyLocked(ctx context.Context, rec CheckEventRecord) (CheckState, error) {
	if _, err := r.store.Add(ctx, rec); err != nil {
		logPersistenceError(r.logger, rec, err)
		return "", &Error{Code: ErrCodePersistence, Record: rec, Expected: r.state.NextOperation(), Err: err}
	}

	r.last = rec
	r.hasLast = true
	r.lastChange = rec.Moment
	r.hasChange = true
	r.state = rec.Operation.ResultingState()
	r.pending++

	logCheckAccepted(r.logger, rec, r.state, r.pending)
	return r.state, nil
}

// TimeSinceLastOperation returns the milliseconds elapsed since the last
// accepted operation, or -1 if none has been accepted.
func (r *Register) TimeSinceLastOperation() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasLast {
		return -1
	}
	return r.clock.Now().UnixMilli() - r.last.Moment
}

// FindOperations returns the stored records in frame.
//
// All returns every record in storage order. The other frames return the
// records whose moment lies in the frame's window containing now, bounds
// included, ascending by moment.
func (r *Register) FindOperations(ctx context.Context, frame TemporalFrame) ([]CheckEventRecord, error) {
	if frame == All {
		recs, err := r.store.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("find operations: %w", err)
		}
		return store.Values(recs), nil
	}

	w, err := r.Window(frame)
	if err != nil {
		return nil, err
	}
	recs, err := r.store.FindByIndex(ctx, MomentsIndex, w.StartMillis(), w.EndMillis())
	if err != nil {
		return nil, fmt.Errorf("find operations: %w", err)
	}
	return store.Values(recs), nil
}

// Window returns the window of a bounded frame around now.
func (r *Register) Window(frame TemporalFrame) (calendar.Window, error) {
	now := r.clock.Now()
	switch frame {
	case Today:
		return r.calendar.Day(now), nil
	case ThisWeek:
		return r.calendar.Week(now), nil
	case ThisMonth:
		return r.calendar.Month(now), nil
	}
	return calendar.Window{}, fmt.Errorf("no window for temporal frame %q", frame)
}

// Resume restores the state implied by the last stored record, so a new
// process continues the alternation of a previous one. An empty store
// leaves the register unchanged. The pending sync count is not restored.
func (r *Register) Resume(ctx context.Context) error {
	last, err := r.store.GetLast(ctx)
	if store.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	r.mu.Lock()
	r.last = last.Value
	r.hasLast = true
	r.lastChange = last.Value.Moment
	r.hasChange = true
	r.state = last.Value.Operation.ResultingState()
	r.mu.Unlock()

	logStateResumed(r.logger, last.Value, last.Value.Operation.ResultingState())
	return nil
}

// OperationAt returns the first stored record at exactly moment.
func (r *Register) OperationAt(ctx context.Context, moment int64) (CheckEventRecord, error) {
	rec, err := r.store.GetByIndex(ctx, MomentsIndex, moment)
	if err != nil {
		return CheckEventRecord{}, fmt.Errorf("operation at %d: %w", moment, err)
	}
	return rec.Value, nil
}

// OperationCount returns the number of stored records.
func (r *Register) OperationCount(ctx context.Context) (int, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("operation count: %w", err)
	}
	return n, nil
}

// Subscribe registers fn to be called synchronously after every accepted
// operation, once state mutation is complete.
func (r *Register) Subscribe(fn Listener) SubscriptionID {
	id := SubscriptionID(r.ids.Generate())
	r.subs.add(id, fn)
	logSubscription(r.logger, EventSubscribed, id, r.subs.len())
	return id
}

// Unsubscribe removes a subscriber. Unknown ids are ignored. Once it
// returns, id receives no further events.
func (r *Register) Unsubscribe(id SubscriptionID) {
	if r.subs.remove(id) {
		logSubscription(r.logger, EventUnsubscribed, id, r.subs.len())
	}
}
