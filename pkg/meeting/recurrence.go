package meeting

import (
	"sort"
	"time"

	"github.com/timedesk/timedesk/internal/utils"
)

// maxExpansionSteps caps recurrence expansion so a malformed or unbounded
// rule cannot spin forever.
const maxExpansionSteps = 5000

// weekdayNumber maps the two-letter wire codes to Go weekday numbers
// (Sunday=0 .. Saturday=6).
var weekdayNumber = map[string]int{
	"SU": 0, "MO": 1, "TU": 2, "WE": 3, "TH": 4, "FR": 5, "SA": 6,
}

// CalculateIndexInSeries returns the zero-based position of occurrenceDate
// within the full expansion of rule, matching at day granularity. It returns
// -1 when the rule or its anchor is absent, malformed, or when the date is
// never produced by the rule.
func CalculateIndexInSeries(rule *RRule, occurrenceDate time.Time) int {
	for i, occ := range expandRule(rule) {
		if utils.DatesEqualByDay(occ, occurrenceDate) {
			return i
		}
	}
	return -1
}

// OccurrenceAtIndex returns the date of the zero-based index-th occurrence of
// rule. It reports false when the rule is absent or malformed, or when the
// expansion never reaches that index.
func OccurrenceAtIndex(rule *RRule, index int) (time.Time, bool) {
	if index < 0 {
		return time.Time{}, false
	}
	occurrences := expandRule(rule)
	if index >= len(occurrences) {
		return time.Time{}, false
	}
	return occurrences[index], true
}

// expandRule produces the ascending occurrence list of rule, empty when the
// rule or its anchor is absent or malformed.
func expandRule(rule *RRule) []time.Time {
	if rule == nil || rule.DtStart == "" {
		return nil
	}
	dtStart, err := utils.ParseLocal(rule.DtStart)
	if err != nil {
		return nil
	}

	var until time.Time
	hasUntil := false
	if rule.Until != "" {
		if u, err := utils.ParseLocal(rule.Until); err == nil {
			until = u
			hasUntil = true
		}
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}
	weekdays := parseWeekdayCodes(rule.ByWeekdays)

	var occurrences []time.Time
	if rule.Freq == FreqWeekly && len(weekdays) > 0 {
		occurrences = expandWeeklyByWeekday(dtStart, until, hasUntil, rule.Count, interval, weekdays)
	} else {
		occurrences = expandByStep(rule.Freq, dtStart, until, hasUntil, rule.Count, interval, weekdays)
	}

	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Before(occurrences[j])
	})
	return occurrences
}

// expandWeeklyByWeekday iterates week blocks anchored at dtStart's week, each
// block offset by interval weeks, emitting the selected weekdays in ascending
// order within the block. Candidates before dtStart or after until are
// discarded; no global re-sort across blocks is required since blocks advance
// monotonically.
func expandWeeklyByWeekday(dtStart time.Time, until time.Time, hasUntil bool, count, interval int, weekdays []int) []time.Time {
	out := make([]time.Time, 0, 32)
	weekAnchor := dtStart.AddDate(0, 0, -int(dtStart.Weekday()))

	steps := 0
	for block := 0; steps < maxExpansionSteps; block++ {
		weekStart := weekAnchor.AddDate(0, 0, block*7*interval)
		if hasUntil && weekStart.After(until) {
			break
		}
		for _, wd := range weekdays {
			steps++
			if steps > maxExpansionSteps {
				return out
			}
			candidate := weekStart.AddDate(0, 0, wd)
			if candidate.Before(dtStart) {
				continue
			}
			if hasUntil && candidate.After(until) {
				continue
			}
			out = append(out, candidate)
			if count > 0 && len(out) >= count {
				return out
			}
		}
	}
	return out
}

// expandByStep walks forward from dtStart by interval units of freq. The
// weekday filter is a defensive no-op for non-weekly frequencies but is
// honored when present.
func expandByStep(freq string, dtStart time.Time, until time.Time, hasUntil bool, count, interval int, weekdays []int) []time.Time {
	out := make([]time.Time, 0, 32)
	cur := dtStart
	for steps := 0; steps < maxExpansionSteps; steps++ {
		if hasUntil && cur.After(until) {
			break
		}
		if len(weekdays) == 0 || containsWeekday(weekdays, int(cur.Weekday())) {
			out = append(out, cur)
			if count > 0 && len(out) >= count {
				break
			}
		}
		switch freq {
		case FreqDaily:
			cur = cur.AddDate(0, 0, interval)
		case FreqWeekly:
			cur = cur.AddDate(0, 0, 7*interval)
		case FreqMonthly:
			cur = cur.AddDate(0, interval, 0)
		case FreqYearly:
			cur = cur.AddDate(interval, 0, 0)
		default:
			// Unknown frequency: best effort, keep what was collected.
			return out
		}
	}
	return out
}

// parseWeekdayCodes converts two-letter codes to a deduplicated, ascending
// list of weekday numbers. Unknown codes are dropped.
func parseWeekdayCodes(codes []string) []int {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(codes))
	out := make([]int, 0, len(codes))
	for _, code := range codes {
		n, ok := weekdayNumber[code]
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func containsWeekday(weekdays []int, wd int) bool {
	for _, w := range weekdays {
		if w == wd {
			return true
		}
	}
	return false
}
