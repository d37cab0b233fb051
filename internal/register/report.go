package register

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/roach88/timetrack/internal/store"
)

// Interval is one worked span, in Unix milliseconds.
type Interval struct {
	In  int64 `json:"in"`
	Out int64 `json:"out"`

	// Open marks a span whose check-out has not happened yet; Out is then
	// the time the report was built (or the window end, if earlier).
	Open bool `json:"open,omitempty"`
}

// Duration returns Out - In.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Out-i.In) * time.Millisecond
}

// Report summarizes worked time in a frame.
type Report struct {
	Frame     TemporalFrame `json:"frame"`
	Intervals []Interval    `json:"intervals"`
	Total     time.Duration `json:"total"`
}

// Worked pairs each check-in in frame with the following check-out and sums
// the spans.
//
// For bounded frames the state at the window start comes from the last
// record before it: a shift already open at the start counts from the window
// start. A trailing check-in counts up to min(now, window end). Repeated
// check-ins keep the earliest; check-outs without an open shift are skipped.
func (r *Register) Worked(ctx context.Context, frame TemporalFrame) (Report, error) {
	recs, err := r.FindOperations(ctx, frame)
	if err != nil {
		return Report{}, err
	}
	// All is in storage order; manual records may be back-dated.
	slices.SortStableFunc(recs, func(a, b CheckEventRecord) int {
		switch {
		case a.Moment < b.Moment:
			return -1
		case a.Moment > b.Moment:
			return 1
		}
		return 0
	})

	now := r.clock.Now().UnixMilli()
	var in, end int64
	open := false
	bounded := frame != All
	if bounded {
		w, err := r.Window(frame)
		if err != nil {
			return Report{}, err
		}
		end = w.EndMillis()
		open, err = r.openAt(ctx, w.StartMillis())
		if err != nil {
			return Report{}, err
		}
		in = w.StartMillis()
	}

	report := Report{Frame: frame, Intervals: []Interval{}}
	for _, rec := range recs {
		switch rec.Operation {
		case CheckIn:
			if !open {
				in, open = rec.Moment, true
			}
		case CheckOut:
			if open {
				report.Intervals = append(report.Intervals, Interval{In: in, Out: rec.Moment})
				open = false
			}
		}
	}
	if open {
		out := now
		if bounded && end < out {
			out = end
		}
		if out > in {
			report.Intervals = append(report.Intervals, Interval{In: in, Out: out, Open: true})
		}
	}

	for _, iv := range report.Intervals {
		report.Total += iv.Duration()
	}
	return report, nil
}

// openAt reports whether the last record before moment is a check-in.
func (r *Register) openAt(ctx context.Context, moment int64) (bool, error) {
	prev, err := r.store.GetLastBefore(ctx, MomentsIndex, moment)
	if store.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("worked: %w", err)
	}
	return prev.Value.Operation == CheckIn, nil
}
