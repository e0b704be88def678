package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestCalculateIndexInSeries_Daily(t *testing.T) {
	rule := &RRule{Freq: FreqDaily, DtStart: "2025-01-01T09:00:00", Count: 10}

	t.Run("index equals offset in days", func(t *testing.T) {
		assert.Equal(t, 0, CalculateIndexInSeries(rule, day(2025, time.January, 1)))
		assert.Equal(t, 3, CalculateIndexInSeries(rule, day(2025, time.January, 4)))
		assert.Equal(t, 9, CalculateIndexInSeries(rule, day(2025, time.January, 10)))
	})

	t.Run("count bound is exact", func(t *testing.T) {
		assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2025, time.January, 11)))
	})

	t.Run("matching ignores the clicked time of day", func(t *testing.T) {
		clicked := time.Date(2025, time.January, 4, 23, 59, 0, 0, time.Local)
		assert.Equal(t, 3, CalculateIndexInSeries(rule, clicked))
	})

	t.Run("date before the anchor is not in the series", func(t *testing.T) {
		assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2024, time.December, 31)))
	})
}

func TestCalculateIndexInSeries_WeeklyByWeekday(t *testing.T) {
	// 2025-01-06 is a Monday.
	rule := &RRule{
		Freq:       FreqWeekly,
		DtStart:    "2025-01-06T10:00:00",
		ByWeekdays: []string{"MO", "WE"},
	}

	t.Run("occurrences are numbered in calendar order", func(t *testing.T) {
		assert.Equal(t, 0, CalculateIndexInSeries(rule, day(2025, time.January, 6)))
		assert.Equal(t, 1, CalculateIndexInSeries(rule, day(2025, time.January, 8)))
		assert.Equal(t, 2, CalculateIndexInSeries(rule, day(2025, time.January, 13)))
		assert.Equal(t, 3, CalculateIndexInSeries(rule, day(2025, time.January, 15)))
	})

	t.Run("weekday outside the selection is not in the series", func(t *testing.T) {
		// 2025-01-07 is a Tuesday.
		assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2025, time.January, 7)))
	})

	t.Run("selected weekday before the anchor is skipped", func(t *testing.T) {
		// The Wednesday of the anchor's previous week.
		assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2025, time.January, 1)))
	})

	t.Run("weekday codes are deduplicated and order-insensitive", func(t *testing.T) {
		shuffled := &RRule{
			Freq:       FreqWeekly,
			DtStart:    "2025-01-06T10:00:00",
			ByWeekdays: []string{"WE", "MO", "WE"},
		}
		assert.Equal(t, 1, CalculateIndexInSeries(shuffled, day(2025, time.January, 8)))
	})
}

func TestCalculateIndexInSeries_WeeklyInterval(t *testing.T) {
	rule := &RRule{
		Freq:       FreqWeekly,
		DtStart:    "2025-01-06T10:00:00",
		Interval:   2,
		ByWeekdays: []string{"MO"},
	}

	assert.Equal(t, 0, CalculateIndexInSeries(rule, day(2025, time.January, 6)))
	assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2025, time.January, 13)))
	assert.Equal(t, 1, CalculateIndexInSeries(rule, day(2025, time.January, 20)))
	assert.Equal(t, 2, CalculateIndexInSeries(rule, day(2025, time.February, 3)))
}

func TestCalculateIndexInSeries_Until(t *testing.T) {
	rule := &RRule{Freq: FreqDaily, DtStart: "2025-01-01T00:00:00", Until: "2025-01-05T00:00:00"}

	assert.Equal(t, 4, CalculateIndexInSeries(rule, day(2025, time.January, 5)))
	assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2025, time.January, 6)))
}

func TestCalculateIndexInSeries_MonthlyAndYearly(t *testing.T) {
	monthly := &RRule{Freq: FreqMonthly, DtStart: "2025-01-15T12:00:00"}
	assert.Equal(t, 2, CalculateIndexInSeries(monthly, day(2025, time.March, 15)))

	yearly := &RRule{Freq: FreqYearly, DtStart: "2025-01-15T12:00:00"}
	assert.Equal(t, 1, CalculateIndexInSeries(yearly, day(2026, time.January, 15)))
}

func TestCalculateIndexInSeries_DegenerateInput(t *testing.T) {
	t.Run("nil rule", func(t *testing.T) {
		assert.Equal(t, -1, CalculateIndexInSeries(nil, day(2025, time.January, 1)))
	})

	t.Run("missing anchor", func(t *testing.T) {
		assert.Equal(t, -1, CalculateIndexInSeries(&RRule{Freq: FreqDaily}, day(2025, time.January, 1)))
	})

	t.Run("unparseable anchor", func(t *testing.T) {
		rule := &RRule{Freq: FreqDaily, DtStart: "not-a-date"}
		assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2025, time.January, 1)))
	})

	t.Run("zero interval behaves as one", func(t *testing.T) {
		rule := &RRule{Freq: FreqDaily, DtStart: "2025-01-01T00:00:00", Interval: 0, Count: 3}
		assert.Equal(t, 2, CalculateIndexInSeries(rule, day(2025, time.January, 3)))
	})

	t.Run("unbounded rule stays within the expansion cap", func(t *testing.T) {
		rule := &RRule{Freq: FreqDaily, DtStart: "2025-01-01T00:00:00"}
		// Far beyond the cap: must terminate and report not-found.
		assert.Equal(t, -1, CalculateIndexInSeries(rule, day(2045, time.January, 1)))
	})
}

func TestOccurrenceAtIndex(t *testing.T) {
	rule := &RRule{
		Freq:       FreqWeekly,
		DtStart:    "2025-01-06T10:00:00",
		ByWeekdays: []string{"MO", "WE"},
		Count:      4,
	}

	t.Run("returns the date at the given position", func(t *testing.T) {
		got, ok := OccurrenceAtIndex(rule, 1)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2025, time.January, 8, 10, 0, 0, 0, time.Local), got)
	})

	t.Run("is the inverse of the index lookup", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			got, ok := OccurrenceAtIndex(rule, i)
			assert.True(t, ok)
			assert.Equal(t, i, CalculateIndexInSeries(rule, got))
		}
	})

	t.Run("reports false past the count bound", func(t *testing.T) {
		_, ok := OccurrenceAtIndex(rule, 4)
		assert.False(t, ok)
	})

	t.Run("reports false for a negative index or missing rule", func(t *testing.T) {
		_, ok := OccurrenceAtIndex(rule, -1)
		assert.False(t, ok)
		_, ok = OccurrenceAtIndex(nil, 0)
		assert.False(t, ok)
	})
}

func TestCalculateIndexInSeries_Monotonic(t *testing.T) {
	rule := &RRule{
		Freq:       FreqWeekly,
		DtStart:    "2025-01-06T08:30:00",
		ByWeekdays: []string{"MO", "WE", "FR"},
		Count:      12,
	}

	prev := -1
	cur := day(2025, time.January, 6)
	for i := 0; i < 30; i++ {
		idx := CalculateIndexInSeries(rule, cur)
		if idx != -1 {
			assert.Greater(t, idx, prev, "indexes must increase with the date (%s)", cur)
			prev = idx
		}
		cur = cur.AddDate(0, 0, 1)
	}
	assert.Equal(t, 11, prev)
}
