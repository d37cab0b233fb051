package harness

// Trace event types.
const (
	EventAccepted = "accepted"
	EventRejected = "rejected"
)

// TraceEvent is one step outcome.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	Type      string `json:"type"` // "accepted" or "rejected"
	Operation string `json:"operation"`
	Moment    string `json:"moment"` // RFC 3339, UTC
	State     string `json:"state"`  // register state after the step
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expect and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event with the next sequence number.
func (r *Result) AddTrace(ev TraceEvent) {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
}
