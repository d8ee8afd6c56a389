package businessday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/orderdesk/internal/holiday"
)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestCutoff(t *testing.T) {
	defaults := holiday.Default(at(2026, time.October, 17, 0))

	testCases := []struct {
		name      string
		holidays  holiday.Calendar
		reference time.Time
		days      int
		want      time.Time
	}{
		{
			name:      "monday three days spans one weekend",
			holidays:  defaults,
			reference: at(2026, time.October, 19, 9),
			days:      3,
			want:      at(2026, time.October, 14, 9),
		},
		{
			name:      "one day back from wednesday",
			holidays:  defaults,
			reference: at(2026, time.October, 21, 9),
			days:      1,
			want:      at(2026, time.October, 20, 9),
		},
		{
			name:      "saturday reference skips nothing before friday",
			holidays:  holiday.None,
			reference: at(2026, time.October, 17, 18),
			days:      1,
			want:      at(2026, time.October, 16, 18),
		},
		{
			name:      "month boundary",
			holidays:  holiday.None,
			reference: at(2026, time.March, 2, 10),
			days:      1,
			want:      at(2026, time.February, 27, 10),
		},
		{
			name:      "christmas is skipped",
			holidays:  defaults,
			reference: at(2026, time.December, 28, 8),
			days:      1,
			want:      at(2026, time.December, 24, 8),
		},
		{
			name:      "weekday holiday without calendar counts",
			holidays:  holiday.None,
			reference: at(2026, time.December, 28, 8),
			days:      1,
			want:      at(2026, time.December, 25, 8),
		},
		{
			name:      "year boundary with new year",
			holidays:  holiday.NewStatic(at(2027, time.January, 1, 0)),
			reference: at(2027, time.January, 4, 12),
			days:      2,
			want:      at(2026, time.December, 30, 12),
		},
		{
			name:      "two full weeks",
			holidays:  holiday.None,
			reference: at(2026, time.October, 19, 0),
			days:      10,
			want:      at(2026, time.October, 5, 0),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewCalculator(tc.holidays).Cutoff(tc.reference, tc.days)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCutoffRejectsNonPositive(t *testing.T) {
	calc := NewCalculator(nil)
	for _, days := range []int{0, -1, -30} {
		_, err := calc.Cutoff(at(2026, time.October, 19, 0), days)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestCutoffCountsWeekdays(t *testing.T) {
	calc := NewCalculator(holiday.None)
	start := at(2026, time.January, 1, 13)

	for offset := 0; offset < 60; offset++ {
		reference := start.AddDate(0, 0, offset)
		for days := 1; days <= 15; days++ {
			cutoff, err := calc.Cutoff(reference, days)
			require.NoError(t, err)
			require.True(t, calc.IsBusinessDay(cutoff), "cutoff %s must be a weekday", cutoff)

			weekdays, weekends := 0, 0
			for d := reference.AddDate(0, 0, -1); !d.Before(cutoff); d = d.AddDate(0, 0, -1) {
				if calc.IsBusinessDay(d) {
					weekdays++
				} else {
					weekends++
				}
			}
			require.Equal(t, days, weekdays, "reference %s days %d", reference, days)
			require.Equal(t, reference.AddDate(0, 0, -(days+weekends)), cutoff)
		}
	}
}

func TestHolidayDoesNotCount(t *testing.T) {
	wednesday := at(2026, time.October, 14, 0)
	calc := NewCalculator(holiday.NewStatic(wednesday))

	cutoff, err := calc.Cutoff(at(2026, time.October, 16, 11), 2)
	require.NoError(t, err)
	assert.Equal(t, at(2026, time.October, 13, 11), cutoff)
	assert.False(t, calc.IsBusinessDay(wednesday))
}
