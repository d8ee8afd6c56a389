// Package businessday turns "the last N business days" into a cutoff instant.
package businessday

import (
	"errors"
	"time"

	"github.com/Additional-Code/orderdesk/internal/holiday"
)

// ErrInvalidArgument is returned when the requested number of business days
// is not positive.
var ErrInvalidArgument = errors.New("business days must be greater than zero")

// Calculator walks the calendar backwards, skipping weekends and holidays.
type Calculator struct {
	holidays holiday.Calendar
}

// NewCalculator builds a Calculator; a nil calendar means no holidays.
func NewCalculator(holidays holiday.Calendar) *Calculator {
	if holidays == nil {
		holidays = holiday.None
	}
	return &Calculator{holidays: holidays}
}

// IsBusinessDay reports whether t falls on a weekday that is not a holiday.
func (c *Calculator) IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays.IsHoliday(t)
}

// Cutoff steps back from reference one calendar day at a time until
// businessDays business days were passed and returns the last instant reached.
// The time of day of reference is preserved.
func (c *Calculator) Cutoff(reference time.Time, businessDays int) (time.Time, error) {
	if businessDays <= 0 {
		return time.Time{}, ErrInvalidArgument
	}

	current := reference
	for counted := 0; counted < businessDays; {
		current = current.AddDate(0, 0, -1)
		if c.IsBusinessDay(current) {
			counted++
		}
	}
	return current, nil
}
