package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func seriesModal() MeetingModal {
	return MeetingModal{
		Meeting: Meeting{
			Id:           42,
			RecurrenceId: "series-abc",
			Title:        "Daily standup",
			Start:        "2025-03-03T14:00:00",
			End:          "2025-03-03T15:00:00",
			Type:         TypeRecurring,
			RRule:        &RRule{Freq: FreqDaily, DtStart: "2025-03-03T14:00:00"},
			ExDate:       []string{"2025-03-05T14:00:00"},
		},
		Details: &MeetingDetails{Location: "Room 4"},
	}
}

func TestNewExceptionFromSeries(t *testing.T) {
	clicked := day(2025, time.March, 10)

	t.Run("keeps the parent time of day on the clicked date", func(t *testing.T) {
		exception := NewExceptionFromSeries(seriesModal(), clicked, false)

		assert.Equal(t, "2025-03-10T14:00:00", exception.Meeting.Start)
		assert.Equal(t, "2025-03-10T15:00:00", exception.Meeting.End)
	})

	t.Run("detaches from the series but keeps its identity", func(t *testing.T) {
		exception := NewExceptionFromSeries(seriesModal(), clicked, false)

		assert.Equal(t, 0, exception.Meeting.Id)
		assert.Equal(t, "series-abc", exception.Meeting.RecurrenceId)
		assert.Equal(t, TypeException, exception.Meeting.Type)
		assert.Nil(t, exception.Meeting.RRule)
		assert.Nil(t, exception.Meeting.ExDate)
		assert.Equal(t, "Daily standup", exception.Meeting.Title)
	})

	t.Run("computes the index from the rule", func(t *testing.T) {
		exception := NewExceptionFromSeries(seriesModal(), clicked, false)

		// 2025-03-10 is seven days after the daily anchor.
		if assert.NotNil(t, exception.Meeting.IndexInSeries) {
			assert.Equal(t, 7, *exception.Meeting.IndexInSeries)
		}
	})

	t.Run("reuses a frozen index when the parent carries one", func(t *testing.T) {
		parent := seriesModal()
		frozen := 99
		parent.Meeting.IndexInSeries = &frozen

		exception := NewExceptionFromSeries(parent, clicked, false)

		if assert.NotNil(t, exception.Meeting.IndexInSeries) {
			assert.Equal(t, 99, *exception.Meeting.IndexInSeries)
		}
	})

	t.Run("deleted flag produces a deleted record", func(t *testing.T) {
		exception := NewExceptionFromSeries(seriesModal(), clicked, true)

		assert.Equal(t, TypeDeleted, exception.Meeting.Type)
	})

	t.Run("falls back to the parent id as recurrence id", func(t *testing.T) {
		parent := seriesModal()
		parent.Meeting.RecurrenceId = ""

		exception := NewExceptionFromSeries(parent, clicked, false)

		assert.Equal(t, "42", exception.Meeting.RecurrenceId)
	})

	t.Run("defaults to thirty minutes when the parent has no end", func(t *testing.T) {
		parent := seriesModal()
		parent.Meeting.End = ""

		exception := NewExceptionFromSeries(parent, clicked, false)

		assert.Equal(t, "2025-03-10T14:00:00", exception.Meeting.Start)
		assert.Equal(t, "2025-03-10T14:30:00", exception.Meeting.End)
	})

	t.Run("inherits the parent details", func(t *testing.T) {
		exception := NewExceptionFromSeries(seriesModal(), clicked, false)

		if assert.NotNil(t, exception.Details) {
			assert.Equal(t, "Room 4", exception.Details.Location)
		}
	})
}
