package meeting

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
	"github.com/timedesk/timedesk/internal/utils"
)

type EventKind string

const (
	KindSingle    EventKind = "single"
	KindSeries    EventKind = "series"
	KindException EventKind = "exception"
)

// RenderableEvent is what the calendar widget consumes: a typed variant of
// the meeting DTO with the recurrence rule and exclusion dates normalized to
// the series start time. The original DTO rides along for click/delete
// retrieval.
type RenderableEvent struct {
	Kind     EventKind `json:"kind"`
	Id       int       `json:"id"`
	Title    string    `json:"title"`
	Start    string    `json:"start"`
	End      string    `json:"end,omitempty"`
	AllDay   bool      `json:"allDay"`
	Duration string    `json:"duration,omitempty"`
	RRule    string    `json:"rrule,omitempty"`
	ExDates  []string  `json:"exDates,omitempty"`
	Meeting  Meeting   `json:"meeting"`
}

// Occurrence is one concrete instance of a meeting within a time window.
type Occurrence struct {
	Meeting Meeting   `json:"meeting"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

var rruleFrequency = map[string]rrule.Frequency{
	FreqDaily:   rrule.DAILY,
	FreqWeekly:  rrule.WEEKLY,
	FreqMonthly: rrule.MONTHLY,
	FreqYearly:  rrule.YEARLY,
}

var rruleWeekday = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// ProjectForCalendar transforms the flat meeting list into renderable events.
// Deleted occurrences (type 4) are not rendered; their dates, and the dates of
// edited exceptions, are folded into the master's exclusion list so the
// master's expansion does not double-render them. A malformed DTO is skipped
// with a warning and never blocks the projection of the remaining events.
func ProjectForCalendar(dtos []Meeting) []RenderableEvent {
	suppressed := collectExceptionDates(dtos)

	events := make([]RenderableEvent, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Type == TypeDeleted {
			continue
		}
		ev, err := projectOne(dto, suppressed[dto.RecurrenceId])
		if err != nil {
			log.Warnf("skipping unprojectable meeting %d: %v", dto.Id, err)
			continue
		}
		events = append(events, ev)
	}
	return events
}

// collectExceptionDates gathers, per series recurrence id, the occurrence
// dates already covered by an exception record (edited or deleted).
func collectExceptionDates(dtos []Meeting) map[string][]string {
	masterRules := make(map[string]*RRule)
	for _, dto := range dtos {
		if dto.Type == TypeRecurring && dto.RecurrenceId != "" {
			masterRules[dto.RecurrenceId] = dto.RRule
		}
	}

	out := make(map[string][]string)
	for _, dto := range dtos {
		if !dto.IsException() || dto.RecurrenceId == "" {
			continue
		}
		if slot, ok := suppressedSlot(dto, masterRules[dto.RecurrenceId]); ok {
			out[dto.RecurrenceId] = append(out[dto.RecurrenceId], slot)
		}
	}
	return out
}

// suppressedSlot names the master occurrence an exception covers. The frozen
// index resolved against the master's rule identifies the original slot even
// after the exception was moved to another date; the exception's own start is
// the fallback when no index or master rule is available.
func suppressedSlot(dto Meeting, rule *RRule) (string, bool) {
	if dto.IndexInSeries != nil && rule != nil {
		if t, ok := OccurrenceAtIndex(rule, *dto.IndexInSeries); ok {
			return utils.ToLocalISOString(t), true
		}
	}
	if dto.Start != "" {
		return dto.Start, true
	}
	return "", false
}

func projectOne(dto Meeting, suppressedDates []string) (RenderableEvent, error) {
	if dto.Start == "" {
		return RenderableEvent{}, fmt.Errorf("meeting has no start")
	}
	start, err := utils.ParseLocal(dto.Start)
	if err != nil {
		return RenderableEvent{}, fmt.Errorf("unparseable start %q: %w", dto.Start, err)
	}

	end, endOk := parseEnd(dto, start)

	ev := RenderableEvent{
		Kind:    kindOf(dto),
		Id:      dto.Id,
		Title:   dto.Title,
		AllDay:  dto.AllDay,
		Meeting: dto,
	}

	if dto.AllDay {
		ev.Start = utils.FormatDate(utils.ToLocalISOString(start))
		ev.End = utils.FormatDate(utils.ToLocalISOString(end))
	} else {
		ev.Start = utils.ToLocalISOString(start)
		ev.End = utils.ToLocalISOString(end)
		if endOk {
			ev.Duration = formatDuration(end.Sub(start))
		}
	}

	if dto.RRule != nil {
		ev.RRule = renderableRule(dto.RRule, start, dto.AllDay)
		ev.ExDates = normalizeExDates(append(append([]string{}, dto.ExDate...), suppressedDates...), start, dto.AllDay)
	}

	return ev, nil
}

func kindOf(dto Meeting) EventKind {
	switch dto.Type {
	case TypeRecurring:
		return KindSeries
	case TypeException:
		return KindException
	default:
		return KindSingle
	}
}

func parseEnd(dto Meeting, start time.Time) (time.Time, bool) {
	if dto.End == "" {
		return start.Add(defaultMeetingDuration), false
	}
	end, err := utils.ParseLocal(dto.End)
	if err != nil {
		return start.Add(defaultMeetingDuration), false
	}
	return end, true
}

// renderableRule builds the RRULE string handed to the widget. The rule's
// anchor is forced to the DTO's own start time-of-day, and clamped forward to
// the start when the stored anchor predates it. A rule that cannot be built
// degrades to an empty string rather than failing the event.
func renderableRule(rule *RRule, start time.Time, allDay bool) string {
	r, err := buildRRule(rule, start, allDay)
	if err != nil {
		log.Warnf("cannot express recurrence rule: %v", err)
		return ""
	}
	return r.String()
}

func buildRRule(rule *RRule, start time.Time, allDay bool) (*rrule.RRule, error) {
	freq, ok := rruleFrequency[rule.Freq]
	if !ok {
		return nil, fmt.Errorf("unknown frequency %q", rule.Freq)
	}

	dtStart := start
	if anchor, err := utils.ParseLocal(rule.DtStart); err == nil {
		dtStart = utils.MergeDateWithTime(anchor, start)
		if dtStart.Before(start) {
			dtStart = start
		}
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  dtStart,
		Count:    rule.Count,
	}

	if rule.Until != "" {
		if u, err := utils.ParseLocal(rule.Until); err == nil {
			opt.Until = utils.MergeDateWithTime(u, start)
		}
	}
	for _, wd := range parseWeekdayCodes(rule.ByWeekdays) {
		opt.Byweekday = append(opt.Byweekday, rruleWeekday[wd])
	}
	if allDay {
		opt.Dtstart = truncateToDay(opt.Dtstart)
		if !opt.Until.IsZero() {
			opt.Until = truncateToDay(opt.Until)
		}
	}

	return rrule.NewRRule(opt)
}

// normalizeExDates rewrites each exclusion entry to carry the series start
// time-of-day (or the bare date when all-day), so exact-match exclusion works
// against the expanded occurrences. Unparseable entries are dropped.
func normalizeExDates(entries []string, start time.Time, allDay bool) []string {
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		d, err := utils.ParseLocal(entry)
		if err != nil {
			log.Debugf("dropping unparseable exDate %q", entry)
			continue
		}
		if allDay {
			out = append(out, utils.FormatDate(utils.ToLocalISOString(d)))
		} else {
			out = append(out, utils.ToLocalISOString(utils.MergeDateWithTime(d, start)))
		}
	}
	return out
}

// ExpandOccurrences materializes the concrete instances of every meeting
// within [from, to]: recurring series are expanded through their rule with
// exclusions applied, singles and exceptions are included when they overlap
// the window. One bad meeting never blocks the others.
func ExpandOccurrences(dtos []Meeting, from time.Time, to time.Time) []Occurrence {
	suppressed := collectExceptionDates(dtos)

	out := make([]Occurrence, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Type == TypeDeleted {
			continue
		}
		start, err := utils.ParseLocal(dto.Start)
		if err != nil {
			log.Warnf("skipping meeting %d with unparseable start: %v", dto.Id, err)
			continue
		}
		end, _ := parseEnd(dto, start)

		if dto.RRule == nil {
			if start.Before(to) && end.After(from) || utils.DatesEqualByDay(start, from) {
				out = append(out, Occurrence{Meeting: dto, Start: start, End: end})
			}
			continue
		}

		r, err := buildRRule(dto.RRule, start, dto.AllDay)
		if err != nil {
			log.Warnf("skipping series %d with bad rule: %v", dto.Id, err)
			continue
		}

		var set rrule.Set
		set.RRule(r)
		for _, ex := range normalizeExDates(append(append([]string{}, dto.ExDate...), suppressed[dto.RecurrenceId]...), start, dto.AllDay) {
			if t, err := utils.ParseLocal(ex); err == nil {
				set.ExDate(t)
			}
		}

		times := set.Between(from, to, true)
		if len(times) > maxExpansionSteps {
			log.Warnf("series %d truncated at %d occurrences", dto.Id, maxExpansionSteps)
			times = times[:maxExpansionSteps]
		}

		duration := end.Sub(start)
		if duration <= 0 {
			duration = defaultMeetingDuration
		}
		for _, t := range times {
			out = append(out, Occurrence{Meeting: dto, Start: t, End: t.Add(duration)})
		}
	}
	return out
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
