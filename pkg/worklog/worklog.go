package worklog

import (
	"time"
)

// WorkEntry is one attendance interval. A zero EndTime means the entry is
// still running.
type WorkEntry struct {
	Id         int
	EmployeeId int
	Project    string
	StartTime  time.Time
	EndTime    time.Time
}

// Running reports whether the entry has not been clocked out yet.
func (e WorkEntry) Running() bool {
	return e.EndTime.IsZero()
}

// Duration returns the entry length, using now for a running entry.
func (e WorkEntry) Duration(now time.Time) time.Duration {
	end := e.EndTime
	if e.Running() {
		end = now
	}
	d := end.Sub(e.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// WeeklySummary aggregates the finished entries of one ISO week.
type WeeklySummary struct {
	WeekStart time.Time
	ByDay     map[time.Time]time.Duration
	ByProject map[string]time.Duration
	Total     time.Duration
}
