// Package clock abstracts wall-clock access so date resolution can be tested.
package clock

import "time"

// Clock is the time source used by services.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
	After(d time.Duration) <-chan time.Time
	LoadLocation(name string) (*time.Location, error)
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time                         { return time.Now() }
func (RealClock) NowUTC() time.Time                      { return time.Now().UTC() }
func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (RealClock) LoadLocation(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}

// AnchorClock always reports the same instant. Timers still use real time.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock anchors at t, or at the current UTC time when t is zero.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) Now() time.Time                         { return c.anchor }
func (c AnchorClock) NowUTC() time.Time                      { return c.anchor.UTC() }
func (c AnchorClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (c AnchorClock) LoadLocation(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}

// Today returns midnight of the current day in loc, expressed in UTC so it
// compares cleanly against DATE columns.
func Today(c Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	now := c.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// TruncateDate drops the time of day from t, keeping its calendar date.
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
