// Package calendar does business-day date arithmetic over weekends and a
// configured holiday list.
package calendar

import (
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the layout of holiday dates in config files and the database.
const DateLayout = "2006-01-02"

// Advancer moves a date forward by a number of business days.
type Advancer interface {
	Advance(from time.Time, businessDays int) time.Time
}

// Calendar is immutable after construction and safe for concurrent use.
type Calendar struct {
	holidays map[string]struct{}
	weekend  map[time.Weekday]struct{}
}

// New returns a Calendar with a Saturday/Sunday weekend and the given holidays.
// Only the calendar date of each holiday is used.
func New(holidays ...time.Time) *Calendar {
	c := &Calendar{
		holidays: make(map[string]struct{}, len(holidays)),
		weekend:  map[time.Weekday]struct{}{time.Saturday: {}, time.Sunday: {}},
	}
	for _, h := range holidays {
		c.holidays[h.Format(DateLayout)] = struct{}{}
	}
	return c
}

// ParseHolidays parses YYYY-MM-DD strings.
func ParseHolidays(days []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, errors.Wrapf(err, "parse holiday %q", d)
		}
		out = append(out, t)
	}
	return out, nil
}

// IsBusinessDay reports whether t falls on neither a weekend nor a holiday,
// judged in t's own location.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	if _, ok := c.weekend[t.Weekday()]; ok {
		return false
	}
	_, ok := c.holidays[t.Format(DateLayout)]
	return !ok
}

// Advance returns the date businessDays business days after from, keeping
// the time of day. A start on a non-business day first rolls forward to the
// next business day. Negative counts move backwards.
func (c *Calendar) Advance(from time.Time, businessDays int) time.Time {
	step := 1
	if businessDays < 0 {
		step = -1
		businessDays = -businessDays
	}
	t := from
	for !c.IsBusinessDay(t) {
		t = t.AddDate(0, 0, step)
	}
	for i := 0; i < businessDays; i++ {
		t = t.AddDate(0, 0, step)
		for !c.IsBusinessDay(t) {
			t = t.AddDate(0, 0, step)
		}
	}
	return t
}
