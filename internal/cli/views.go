package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/timetrack/internal/calendar"
	"github.com/roach88/timetrack/internal/register"
)

// Views are the payloads of CLI responses. JSON output encodes them
// directly; text output prints their String form.

func formatMillis(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format(time.RFC3339)
}

type operationView struct {
	Moment    int64  `json:"moment"`
	Time      string `json:"time"`
	Operation string `json:"operation"`
}

func newOperationView(rec register.CheckEventRecord, loc *time.Location) operationView {
	return operationView{
		Moment:    rec.Moment,
		Time:      formatMillis(rec.Moment, loc),
		Operation: string(rec.Operation),
	}
}

func (v operationView) String() string {
	return fmt.Sprintf("%s at %s", v.Operation, v.Time)
}

type checkView struct {
	operationView
	State string `json:"state"`
}

func (v checkView) String() string {
	return fmt.Sprintf("%s (now %s)", v.operationView, v.State)
}

type statusView struct {
	State      string         `json:"state"`
	Next       string         `json:"next"`
	Last       *operationView `json:"last,omitempty"`
	SinceMs    int64          `json:"since_ms"`
	Operations int            `json:"operations"`
}

func (v statusView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "State:      %s\n", v.State)
	fmt.Fprintf(&b, "Next:       %s\n", v.Next)
	if v.Last == nil {
		b.WriteString("Last:       none\n")
		b.WriteString("Since:      -\n")
	} else {
		fmt.Fprintf(&b, "Last:       %s\n", v.Last)
		fmt.Fprintf(&b, "Since:      %s\n", time.Duration(v.SinceMs)*time.Millisecond)
	}
	fmt.Fprintf(&b, "Operations: %d", v.Operations)
	return b.String()
}

type windowView struct {
	Frame string `json:"frame"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

func newWindowView(frame register.TemporalFrame, w *calendar.Window, loc *time.Location) windowView {
	v := windowView{Frame: string(frame)}
	if w != nil {
		v.From = w.Start.In(loc).Format(time.RFC3339)
		v.To = w.End.In(loc).Format(time.RFC3339)
	}
	return v
}

func (v windowView) String() string {
	if v.From == "" {
		return v.Frame
	}
	return fmt.Sprintf("%s: %s .. %s", v.Frame, v.From, v.To)
}

type historyView struct {
	windowView
	Operations []operationView `json:"operations"`
}

func (v historyView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "History (%s)", v.windowView)
	if len(v.Operations) == 0 {
		b.WriteString("\nNo operations.")
		return b.String()
	}
	for _, op := range v.Operations {
		fmt.Fprintf(&b, "\n%s  %s", op.Time, op.Operation)
	}
	return b.String()
}

type intervalView struct {
	In       string `json:"in"`
	Out      string `json:"out"`
	Duration string `json:"duration"`
	Open     bool   `json:"open,omitempty"`
}

type reportView struct {
	windowView
	Intervals []intervalView `json:"intervals"`
	Total     string         `json:"total"`
	TotalMs   int64          `json:"total_ms"`
}

func newReportView(report register.Report, window windowView, loc *time.Location) reportView {
	v := reportView{
		windowView: window,
		Intervals:  make([]intervalView, 0, len(report.Intervals)),
		Total:      report.Total.String(),
		TotalMs:    report.Total.Milliseconds(),
	}
	for _, iv := range report.Intervals {
		v.Intervals = append(v.Intervals, intervalView{
			In:       formatMillis(iv.In, loc),
			Out:      formatMillis(iv.Out, loc),
			Duration: iv.Duration().String(),
			Open:     iv.Open,
		})
	}
	return v
}

func (v reportView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report (%s)", v.windowView)
	for _, iv := range v.Intervals {
		fmt.Fprintf(&b, "\n%s -> %s  %s", iv.In, iv.Out, iv.Duration)
		if iv.Open {
			b.WriteString(" (open)")
		}
	}
	fmt.Fprintf(&b, "\nTotal: %s", v.Total)
	return b.String()
}
