package utils

import (
	"strings"
	"time"
)

// localISOLayout is the wire format for meeting date-times: local wall-clock
// fields, no timezone suffix.
const localISOLayout = "2006-01-02T15:04:05"

// ToLocalISOString formats t as YYYY-MM-DDTHH:mm:ss using its wall-clock
// fields. The output round-trips through ParseLocal.
func ToLocalISOString(t time.Time) string {
	return t.Format(localISOLayout)
}

// ParseLocal parses a local wall-clock date-time string. Bare dates
// (YYYY-MM-DD) are accepted and resolve to midnight.
func ParseLocal(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == 10 {
		return time.ParseInLocation("2006-01-02", s, time.Local)
	}
	// Some upstream payloads carry fractional seconds or a trailing Z even
	// though the value is local wall-clock; strip both before parsing.
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "Z")
	if len(s) == 16 {
		return time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	}
	return time.ParseInLocation(localISOLayout, s, time.Local)
}

// MergeDateWithTime returns a date whose calendar date comes from baseDate and
// whose time-of-day comes from timeSource. Sub-second precision is dropped.
func MergeDateWithTime(baseDate time.Time, timeSource time.Time) time.Time {
	return time.Date(
		baseDate.Year(), baseDate.Month(), baseDate.Day(),
		timeSource.Hour(), timeSource.Minute(), timeSource.Second(), 0,
		baseDate.Location(),
	)
}

// DatesEqualByDay reports whether both times fall on the same calendar day,
// ignoring time-of-day.
func DatesEqualByDay(d1 time.Time, d2 time.Time) bool {
	return d1.Year() == d2.Year() && d1.Month() == d2.Month() && d1.Day() == d2.Day()
}

// FormatDate extracts the YYYY-MM-DD part of a local ISO date-time string.
func FormatDate(iso string) string {
	if len(iso) < 10 {
		return iso
	}
	return iso[:10]
}

// FormatTime extracts the HH:mm part of a local ISO date-time string, or ""
// when the string carries no time component.
func FormatTime(iso string) string {
	if len(iso) < 16 {
		return ""
	}
	return iso[11:16]
}

// CombineDateTime joins a YYYY-MM-DD date and an HH:mm time into a local ISO
// date-time string. Returns "" if either part is empty.
func CombineDateTime(dateStr string, timeStr string) string {
	if dateStr == "" || timeStr == "" {
		return ""
	}
	if len(timeStr) == 5 {
		timeStr += ":00"
	}
	return dateStr + "T" + timeStr
}
