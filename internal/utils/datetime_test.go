package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLocalISOString_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		in   time.Time
	}{
		{"Morning", time.Date(2025, 1, 4, 9, 0, 0, 0, time.Local)},
		{"Midnight", time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)},
		{"LastSecondOfYear", time.Date(2025, 12, 31, 23, 59, 59, 0, time.Local)},
		{"SubSecondDropped", time.Date(2025, 6, 15, 12, 30, 45, 123456789, time.Local)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			formatted := ToLocalISOString(tc.in)
			parsed, err := ParseLocal(formatted)
			require.NoError(t, err)
			assert.Equal(t, formatted, ToLocalISOString(parsed))
			assert.Equal(t, tc.in.Year(), parsed.Year())
			assert.Equal(t, tc.in.Month(), parsed.Month())
			assert.Equal(t, tc.in.Day(), parsed.Day())
			assert.Equal(t, tc.in.Hour(), parsed.Hour())
			assert.Equal(t, tc.in.Minute(), parsed.Minute())
			assert.Equal(t, tc.in.Second(), parsed.Second())
		})
	}
}

func TestParseLocal_Variants(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"BareDate", "2025-01-04", time.Date(2025, 1, 4, 0, 0, 0, 0, time.Local)},
		{"NoSeconds", "2025-01-04T09:30", time.Date(2025, 1, 4, 9, 30, 0, 0, time.Local)},
		{"Full", "2025-01-04T09:30:15", time.Date(2025, 1, 4, 9, 30, 15, 0, time.Local)},
		{"FractionalSeconds", "2025-01-04T09:30:15.000", time.Date(2025, 1, 4, 9, 30, 15, 0, time.Local)},
		{"TrailingZ", "2025-01-04T09:30:15Z", time.Date(2025, 1, 4, 9, 30, 15, 0, time.Local)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLocal(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
		})
	}

	_, err := ParseLocal("not-a-date")
	assert.Error(t, err)
}

func TestMergeDateWithTime(t *testing.T) {
	clicked := time.Date(2025, 3, 10, 17, 45, 12, 999, time.Local)
	seriesStart := time.Date(2024, 11, 1, 14, 0, 30, 0, time.Local)

	merged := MergeDateWithTime(clicked, seriesStart)

	assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 30, 0, time.Local), merged)
}

func TestDatesEqualByDay(t *testing.T) {
	d := time.Date(2025, 1, 4, 9, 0, 0, 0, time.Local)

	assert.True(t, DatesEqualByDay(d, d))
	assert.True(t, DatesEqualByDay(d, time.Date(2025, 1, 4, 23, 59, 59, 0, time.Local)))
	assert.False(t, DatesEqualByDay(d, d.AddDate(0, 0, 1)))
	assert.False(t, DatesEqualByDay(d, d.AddDate(0, 1, 0)))
	assert.False(t, DatesEqualByDay(d, d.AddDate(1, 0, 0)))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "2025-01-04", FormatDate("2025-01-04T09:30:00"))
	assert.Equal(t, "09:30", FormatTime("2025-01-04T09:30:00"))
	assert.Equal(t, "", FormatTime("2025-01-04"))
	assert.Equal(t, "2025-01-04T09:30:00", CombineDateTime("2025-01-04", "09:30"))
	assert.Equal(t, "", CombineDateTime("", "09:30"))
	assert.Equal(t, "", CombineDateTime("2025-01-04", ""))
}
