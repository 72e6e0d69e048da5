// Package scheduledomain resolves the race dates admins type in.
package scheduledomain

import (
	"errors"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognizedDate is returned when input is neither a calendar date nor a
// phrase the natural-language parser understands.
var ErrUnrecognizedDate = errors.New("unrecognized date")

var layouts = []string{
	time.DateOnly,
	"02/01/2006",
	"2 Jan 2006",
	"January 2 2006",
}

// DateParser turns "2025-11-04", "04/11/2025" or "next tuesday" into a calendar
// date.
type DateParser struct {
	w *when.Parser
}

func NewDateParser() *DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateParser{w: w}
}

// Parse resolves input against now as seen in loc. The result is midnight UTC of
// the resolved calendar day.
func (p *DateParser) Parse(input string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrUnrecognizedDate
	}

	for _, layout := range layouts {
		if d, err := time.Parse(layout, input); err == nil {
			return CalendarDate(d, time.UTC), nil
		}
	}

	r, err := p.w.Parse(strings.ToLower(input), now.In(loc))
	if err != nil || r == nil {
		return time.Time{}, ErrUnrecognizedDate
	}
	return CalendarDate(r.Time, loc), nil
}

// CalendarDate returns midnight UTC of the day t falls on in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
