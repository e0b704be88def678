package meeting

import (
	"strconv"
	"time"

	"github.com/timedesk/timedesk/internal/utils"
)

// meetings default to 30 minutes when no explicit end is carried.
const defaultMeetingDuration = 30 * time.Minute

// NewExceptionFromSeries materializes a single-occurrence override of a
// recurring meeting: a detached record carrying the clicked date with the
// parent's time-of-day, the occurrence's frozen index within the series, and
// the parent's auxiliary fields. isDeleted marks the occurrence as removed
// (type 4) instead of edited (type 3).
func NewExceptionFromSeries(parent MeetingModal, clickedOccurrenceDate time.Time, isDeleted bool) MeetingModal {
	m := parent.Meeting

	parentStart, err := utils.ParseLocal(m.Start)
	if err != nil {
		parentStart = clickedOccurrenceDate
	}
	newStart := utils.MergeDateWithTime(clickedOccurrenceDate, parentStart)

	newEnd := newStart.Add(defaultMeetingDuration)
	if m.End != "" {
		if parentEnd, err := utils.ParseLocal(m.End); err == nil {
			newEnd = utils.MergeDateWithTime(clickedOccurrenceDate, parentEnd)
		}
	}

	index := -1
	if m.IndexInSeries != nil {
		index = *m.IndexInSeries
	} else {
		index = CalculateIndexInSeries(m.RRule, clickedOccurrenceDate)
	}

	exception := m
	exception.Id = 0
	exception.RRule = nil
	exception.ExDate = nil
	if exception.RecurrenceId == "" {
		exception.RecurrenceId = strconv.Itoa(m.Id)
	}
	if isDeleted {
		exception.Type = TypeDeleted
	} else {
		exception.Type = TypeException
	}
	exception.Start = utils.ToLocalISOString(newStart)
	exception.End = utils.ToLocalISOString(newEnd)
	exception.IndexInSeries = &index

	return MeetingModal{Meeting: exception, Details: parent.Details}
}
