// Package holiday decides which calendar dates are public holidays.
//
// Calendars match on the calendar date only. The time of day is ignored and
// the date is read in the location of the instant being checked.
package holiday

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Calendar reports whether a given instant falls on a holiday.
type Calendar interface {
	IsHoliday(t time.Time) bool
}

// Func adapts an ordinary predicate to the Calendar interface.
type Func func(t time.Time) bool

// IsHoliday calls f(t).
func (f Func) IsHoliday(t time.Time) bool {
	return f(t)
}

// None is a calendar without holidays.
var None Calendar = Func(func(time.Time) bool { return false })

type date struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) date {
	y, m, d := t.Date()
	return date{year: y, month: m, day: d}
}

func (d date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Static is a fixed set of holiday dates.
type Static struct {
	dates map[date]struct{}
}

// NewStatic builds a calendar from the calendar dates of the given instants.
func NewStatic(dates ...time.Time) *Static {
	s := &Static{dates: make(map[date]struct{}, len(dates))}
	for _, t := range dates {
		s.dates[dateOf(t)] = struct{}{}
	}
	return s
}

// Default returns the built-in calendar: New Year's Day and Christmas Day of
// the year of now.
func Default(now time.Time) *Static {
	year := now.Year()
	return NewStatic(
		time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location()),
		time.Date(year, time.December, 25, 0, 0, 0, 0, now.Location()),
	)
}

// IsHoliday reports whether t's calendar date is in the set.
func (s *Static) IsHoliday(t time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.dates[dateOf(t)]
	return ok
}

// With returns a copy of the calendar extended by extra dates.
func (s *Static) With(extra ...time.Time) *Static {
	merged := &Static{dates: make(map[date]struct{}, len(s.dates)+len(extra))}
	for d := range s.dates {
		merged.dates[d] = struct{}{}
	}
	for _, t := range extra {
		merged.dates[dateOf(t)] = struct{}{}
	}
	return merged
}

// Dates lists the holiday dates in ascending order as YYYY-MM-DD strings.
func (s *Static) Dates() []string {
	out := make([]string, 0, len(s.dates))
	for d := range s.dates {
		out = append(out, d.String())
	}
	sort.Strings(out)
	return out
}

// ParseDates parses YYYY-MM-DD values, skipping blanks.
func ParseDates(values []string, loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation(time.DateOnly, v, loc)
		if err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", v, err)
		}
		out = append(out, t)
	}
	return out, nil
}
