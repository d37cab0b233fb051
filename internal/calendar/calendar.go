// Package calendar computes the day, week and month windows containing an
// instant. Week boundaries follow the start day of a locale.
package calendar

import (
	"time"

	"github.com/jinzhu/now"
)

// Window is a closed time interval. End is the last nanosecond that still
// belongs to the window.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// StartMillis returns Start as Unix milliseconds.
func (w Window) StartMillis() int64 { return w.Start.UnixMilli() }

// EndMillis returns End as Unix milliseconds, truncated so that every
// millisecond timestamp inside the window is <= EndMillis.
func (w Window) EndMillis() int64 { return w.End.UnixMilli() }

// Calendar computes windows in a fixed location with a fixed week start.
// It is immutable and safe for concurrent use.
type Calendar struct {
	cfg *now.Config
}

// Option configures a Calendar.
type Option func(*now.Config)

// WithWeekStart sets the first day of the week.
func WithWeekStart(day time.Weekday) Option {
	return func(c *now.Config) {
		c.WeekStartDay = day
	}
}

// WithLocation sets the location day boundaries are computed in.
// Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *now.Config) {
		if loc != nil {
			c.TimeLocation = loc
		}
	}
}

// New creates a Calendar. Weeks start on Sunday unless configured otherwise.
func New(opts ...Option) *Calendar {
	cfg := &now.Config{
		WeekStartDay: time.Sunday,
		TimeLocation: time.Local,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Calendar{cfg: cfg}
}

// ForLocale creates a Calendar whose week starts on the first day used by
// the region of the BCP 47 tag (e.g. "en-US", "ca-ES").
func ForLocale(tag string, loc *time.Location) (*Calendar, error) {
	day, err := WeekStartForLocale(tag)
	if err != nil {
		return nil, err
	}
	return New(WithWeekStart(day), WithLocation(loc)), nil
}

// WeekStart returns the first day of the week.
func (c *Calendar) WeekStart() time.Weekday {
	return c.cfg.WeekStartDay
}

// Location returns the location windows are computed in.
func (c *Calendar) Location() *time.Location {
	return c.cfg.TimeLocation
}

// in converts t into the calendar location. now.Config.With keeps the
// location of its argument, so every window goes through here.
func (c *Calendar) in(t time.Time) *now.Now {
	return c.cfg.With(t.In(c.cfg.TimeLocation))
}

// Day returns the calendar day containing t, in the calendar location.
func (c *Calendar) Day(t time.Time) Window {
	n := c.in(t)
	return Window{Start: n.BeginningOfDay(), End: n.EndOfDay()}
}

// Week returns the week containing t.
func (c *Calendar) Week(t time.Time) Window {
	n := c.in(t)
	return Window{Start: n.BeginningOfWeek(), End: n.EndOfWeek()}
}

// Month returns the calendar month containing t.
func (c *Calendar) Month(t time.Time) Window {
	n := c.in(t)
	return Window{Start: n.BeginningOfMonth(), End: n.EndOfMonth()}
}
