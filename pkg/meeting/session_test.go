package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*Session, *RepositoryStub, context.Context) {
	svc, repo, _ := newTestService()
	session := NewSession(svc, NewLruCache(16, time.Minute))
	return session, repo, testCtx()
}

func seedSingle(repo *RepositoryStub) Meeting {
	saved, _ := repo.StoreMeeting(context.Background(), 1, MeetingModal{Meeting: Meeting{
		Title: "Dentist",
		Start: "2025-02-03T09:00:00",
		End:   "2025-02-03T10:00:00",
		Type:  TypeSingle,
	}})
	return saved.Meeting
}

func seedSeries(repo *RepositoryStub) Meeting {
	saved, _ := repo.StoreMeeting(context.Background(), 1, MeetingModal{Meeting: Meeting{
		Title:        "Standup",
		Start:        "2025-01-06T10:00:00",
		End:          "2025-01-06T10:15:00",
		RecurrenceId: "abc",
		Type:         TypeRecurring,
		RRule: &RRule{
			Freq:       FreqWeekly,
			DtStart:    "2025-01-06T10:00:00",
			ByWeekdays: []string{"MO", "WE"},
		},
	}})
	return saved.Meeting
}

func TestSession_Load(t *testing.T) {
	session, repo, ctx := newTestSession()
	seedSingle(repo)
	seedSeries(repo)

	require.NoError(t, session.Load(ctx))

	events := session.Events()
	require.Len(t, events, 2)
	assert.Equal(t, StateIdle, session.State())
}

func TestSession_LoadUsesCacheUntilReload(t *testing.T) {
	session, repo, ctx := newTestSession()
	seedSingle(repo)
	require.NoError(t, session.Load(ctx))

	seedSeries(repo)

	require.NoError(t, session.Load(ctx))
	assert.Len(t, session.Events(), 1, "cached list should not see the new meeting yet")

	require.NoError(t, session.Reload(ctx))
	assert.Len(t, session.Events(), 2)
}

func TestSession_ClickEvent(t *testing.T) {
	t.Run("clicking a single meeting goes straight to editing", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		single := seedSingle(repo)

		require.NoError(t, session.ClickEvent(ctx, single.Id, day(2025, time.February, 3)))

		assert.Equal(t, StateEditingOccurrence, session.State())
		require.NotNil(t, session.Selected())
		assert.Equal(t, single.Id, session.Selected().Meeting.Id)
	})

	t.Run("clicking a series occurrence asks for confirmation", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)

		require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 8)))

		assert.Equal(t, StateAwaitingSeriesConfirmation, session.State())
	})

	t.Run("clicking a vanished meeting is ignored", func(t *testing.T) {
		session, _, ctx := newTestSession()

		require.NoError(t, session.ClickEvent(ctx, 999, day(2025, time.January, 8)))

		assert.Equal(t, StateIdle, session.State())
		assert.Nil(t, session.Selected())
	})
}

func TestSession_ConfirmSeriesEdit(t *testing.T) {
	t.Run("whole series keeps the master under edit", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)
		require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 8)))

		require.NoError(t, session.ConfirmSeriesEdit(true))

		assert.Equal(t, StateEditingSeries, session.State())
		assert.Equal(t, master.Id, session.Selected().Meeting.Id)
	})

	t.Run("single occurrence materializes an unsaved exception", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)
		require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 8)))

		require.NoError(t, session.ConfirmSeriesEdit(false))

		assert.Equal(t, StateEditingOccurrence, session.State())
		selected := session.Selected()
		require.NotNil(t, selected)
		assert.Equal(t, 0, selected.Meeting.Id)
		assert.Equal(t, TypeException, selected.Meeting.Type)
		assert.Equal(t, "2025-01-08T10:00:00", selected.Meeting.Start)
	})

	t.Run("fails when no confirmation is pending", func(t *testing.T) {
		session, _, _ := newTestSession()

		assert.Error(t, session.ConfirmSeriesEdit(true))
	})
}

func TestSession_ConfirmDelete(t *testing.T) {
	t.Run("single meeting is removed", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		single := seedSingle(repo)
		require.NoError(t, session.ClickEvent(ctx, single.Id, day(2025, time.February, 3)))
		require.NoError(t, session.RequestDelete())

		require.NoError(t, session.ConfirmDelete(ctx, false))

		_, err := repo.GetMeeting(ctx, 1, single.Id)
		assert.ErrorIs(t, err, ErrMeetingNotFound)
		assert.Equal(t, StateIdle, session.State())
	})

	t.Run("persisted exception is soft deleted", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		exception, _ := repo.StoreMeeting(ctx, 1, MeetingModal{Meeting: Meeting{
			Title:        "Standup (moved)",
			Start:        "2025-01-08T11:00:00",
			RecurrenceId: "abc",
			Type:         TypeException,
		}})
		require.NoError(t, session.ClickEvent(ctx, exception.Meeting.Id, day(2025, time.January, 8)))
		require.NoError(t, session.RequestDelete())

		require.NoError(t, session.ConfirmDelete(ctx, false))

		stored, err := repo.GetMeeting(ctx, 1, exception.Meeting.Id)
		require.NoError(t, err)
		assert.Equal(t, TypeDeleted, stored.Meeting.Type)
	})

	t.Run("unsaved exception is inserted as deleted", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)
		require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 8)))
		require.NoError(t, session.ConfirmSeriesEdit(false))
		require.NoError(t, session.RequestDelete())

		require.NoError(t, session.ConfirmDelete(ctx, false))

		meetings, _ := repo.GetMeetings(ctx, 1)
		require.Len(t, meetings, 2)
		assert.Equal(t, TypeDeleted, meetings[1].Type)
		assert.Equal(t, "2025-01-08T10:00:00", meetings[1].Start)
	})

	t.Run("whole series removes master and exceptions", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)
		repo.StoreMeeting(ctx, 1, MeetingModal{Meeting: Meeting{
			Title: "Standup", Start: "2025-01-08T10:00:00", RecurrenceId: "abc", Type: TypeDeleted,
		}})
		require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 13)))
		require.NoError(t, session.RequestDelete())

		require.NoError(t, session.ConfirmDelete(ctx, true))

		meetings, _ := repo.GetMeetings(ctx, 1)
		assert.Empty(t, meetings)
	})

	t.Run("declining whole series deletes only the clicked occurrence", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)
		require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 13)))
		require.NoError(t, session.RequestDelete())

		require.NoError(t, session.ConfirmDelete(ctx, false))

		meetings, _ := repo.GetMeetings(ctx, 1)
		require.Len(t, meetings, 2)
		assert.Equal(t, TypeRecurring, meetings[0].Type)
		assert.Equal(t, TypeDeleted, meetings[1].Type)
		assert.Equal(t, "2025-01-13T10:00:00", meetings[1].Start)
	})

	t.Run("fails when no delete is pending", func(t *testing.T) {
		session, _, ctx := newTestSession()

		assert.Error(t, session.ConfirmDelete(ctx, false))
	})

	t.Run("duplicate submission is ignored while in flight", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		single := seedSingle(repo)
		require.NoError(t, session.ClickEvent(ctx, single.Id, day(2025, time.February, 3)))
		require.NoError(t, session.RequestDelete())

		session.inFlight = true
		require.NoError(t, session.ConfirmDelete(ctx, false))

		_, err := repo.GetMeeting(ctx, 1, single.Id)
		assert.NoError(t, err, "meeting must survive the ignored duplicate")
	})
}

func TestSession_CancelInteraction(t *testing.T) {
	session, repo, ctx := newTestSession()
	master := seedSeries(repo)
	require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 8)))

	session.CancelInteraction()

	assert.Equal(t, StateIdle, session.State())
	assert.Nil(t, session.Selected())
	meetings, _ := repo.GetMeetings(ctx, 1)
	assert.Len(t, meetings, 1, "cancel must not persist anything")
}

func TestSession_SaveEdited(t *testing.T) {
	t.Run("saving an unsaved exception inserts it", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)
		require.NoError(t, session.ClickEvent(ctx, master.Id, day(2025, time.January, 8)))
		require.NoError(t, session.ConfirmSeriesEdit(false))
		edited := *session.Selected()
		edited.Meeting.Title = "Standup (moved)"

		require.NoError(t, session.SaveEdited(ctx, edited))

		meetings, _ := repo.GetMeetings(ctx, 1)
		require.Len(t, meetings, 2)
		assert.Equal(t, "Standup (moved)", meetings[1].Title)
		assert.Equal(t, StateIdle, session.State())
	})

	t.Run("saving an existing meeting updates it", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		single := seedSingle(repo)
		require.NoError(t, session.ClickEvent(ctx, single.Id, day(2025, time.February, 3)))
		edited := *session.Selected()
		edited.Meeting.Title = "Dentist (rescheduled)"

		require.NoError(t, session.SaveEdited(ctx, edited))

		stored, err := repo.GetMeeting(ctx, 1, single.Id)
		require.NoError(t, err)
		assert.Equal(t, "Dentist (rescheduled)", stored.Meeting.Title)
	})
}

func TestSession_Search(t *testing.T) {
	session, repo, ctx := newTestSession()
	seedSingle(repo)
	seedSeries(repo)
	require.NoError(t, session.Load(ctx))

	t.Run("finds by case-insensitive substring", func(t *testing.T) {
		jump, found := session.Search("standUP")

		require.True(t, found)
		assert.Equal(t, 2025, jump.Year())
		assert.Equal(t, time.January, jump.Month())
		assert.Equal(t, 6, jump.Day())
	})

	t.Run("no match", func(t *testing.T) {
		_, found := session.Search("retrospective")
		assert.False(t, found)
	})

	t.Run("blank query matches nothing", func(t *testing.T) {
		_, found := session.Search("   ")
		assert.False(t, found)
	})
}

func TestSession_MoveOccurrence(t *testing.T) {
	t.Run("moving a single meeting shifts its dates", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		single := seedSingle(repo)

		err := session.MoveOccurrence(ctx, single.Id, day(2025, time.February, 3), day(2025, time.February, 5))

		require.NoError(t, err)
		stored, _ := repo.GetMeeting(ctx, 1, single.Id)
		assert.Equal(t, "2025-02-05T09:00:00", stored.Meeting.Start)
		assert.Equal(t, "2025-02-05T10:00:00", stored.Meeting.End)
	})

	t.Run("moving a series occurrence materializes an exception", func(t *testing.T) {
		session, repo, ctx := newTestSession()
		master := seedSeries(repo)

		err := session.MoveOccurrence(ctx, master.Id, day(2025, time.January, 8), day(2025, time.January, 9))

		require.NoError(t, err)
		meetings, _ := repo.GetMeetings(ctx, 1)
		require.Len(t, meetings, 2)
		assert.Equal(t, TypeRecurring, meetings[0].Type)
		assert.Equal(t, TypeException, meetings[1].Type)
		assert.Equal(t, "2025-01-09T10:00:00", meetings[1].Start)

		window := ExpandOccurrences(meetings, day(2025, time.January, 6), day(2025, time.January, 16))
		require.Len(t, window, 4)
		for _, occ := range window {
			assert.NotEqual(t, 8, occ.Start.Day(), "the vacated slot must not render anymore")
		}
	})
}

func TestSession_PreviewMove(t *testing.T) {
	session, repo, ctx := newTestSession()
	single := seedSingle(repo)
	require.NoError(t, session.Load(ctx))

	preview, found := session.PreviewMove(single.Id, day(2025, time.February, 7))

	require.True(t, found)
	assert.Equal(t, "2025-02-07T09:00:00", preview.Start)
	stored, _ := repo.GetMeeting(ctx, 1, single.Id)
	assert.Equal(t, "2025-02-03T09:00:00", stored.Meeting.Start, "preview must not persist")
}
