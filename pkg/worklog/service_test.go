package worklog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timedesk/timedesk/internal/event_bus"
	"github.com/timedesk/timedesk/internal/utils"
	"github.com/timedesk/timedesk/pkg/employee"
)

func testCtx() context.Context {
	return employee.WithEmployee(context.Background(), employee.Employee{Id: 1, Uid: "test-employee"})
}

func newTestService(now time.Time) (*ServiceImpl, *RepositoryStub, *event_bus.EventBus) {
	repo := NewRepositoryStub()
	bus := event_bus.NewEventBus()
	svc := NewService(repo, bus)
	svc.clock = &utils.MockClock{FixedNow: now}
	return svc, repo, bus
}

func TestServiceImpl_ClockIn(t *testing.T) {
	now := time.Date(2025, time.February, 3, 9, 0, 0, 0, time.Local)

	t.Run("starts a new entry", func(t *testing.T) {
		svc, repo, _ := newTestService(now)

		entry, err := svc.ClockIn(testCtx(), "acme")

		require.NoError(t, err)
		assert.Equal(t, "acme", entry.Project)
		assert.Equal(t, now, entry.StartTime)
		current, _ := repo.FindCurrentEntry(testCtx(), 1)
		require.NotNil(t, current)
		assert.Equal(t, entry.Id, current.Id)
	})

	t.Run("finishes a running entry before starting the next", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		first, err := svc.ClockIn(testCtx(), "acme")
		require.NoError(t, err)

		second, err := svc.ClockIn(testCtx(), "globex")

		require.NoError(t, err)
		assert.NotEqual(t, first.Id, second.Id)
		current, _ := repo.FindCurrentEntry(testCtx(), 1)
		require.NotNil(t, current)
		assert.Equal(t, second.Id, current.Id)
	})

	t.Run("requires an employee in the context", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		_, err := svc.ClockIn(context.Background(), "acme")

		assert.ErrorIs(t, err, employee.ErrNoEmployee)
	})
}

func TestServiceImpl_ClockOut(t *testing.T) {
	start := time.Date(2025, time.February, 3, 9, 0, 0, 0, time.Local)

	t.Run("finishes the running entry and publishes its duration", func(t *testing.T) {
		svc, repo, bus := newTestService(start)
		var closed []event_bus.WorkEntryClosed
		event_bus.SubscribeTyped(bus, event_bus.WorkEntryClosedType, func(e event_bus.EventT[event_bus.WorkEntryClosed]) error {
			closed = append(closed, e.Data)
			return nil
		})
		_, err := svc.ClockIn(testCtx(), "acme")
		require.NoError(t, err)

		svc.clock = &utils.MockClock{FixedNow: start.Add(90 * time.Minute)}
		entry, err := svc.ClockOut(testCtx())

		require.NoError(t, err)
		assert.Equal(t, start.Add(90*time.Minute), entry.EndTime)
		current, _ := repo.FindCurrentEntry(testCtx(), 1)
		assert.Nil(t, current)
		require.Len(t, closed, 1)
		assert.Equal(t, 90, closed[0].Minutes)
	})

	t.Run("fails when nothing is running", func(t *testing.T) {
		svc, _, _ := newTestService(start)

		_, err := svc.ClockOut(testCtx())

		assert.ErrorIs(t, err, ErrNoCurrentEntry)
	})
}

func TestServiceImpl_ModifyCurrentEntryStartTime(t *testing.T) {
	now := time.Date(2025, time.February, 3, 12, 0, 0, 0, time.Local)

	t.Run("moves the start time of the running entry", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		_, err := svc.ClockIn(testCtx(), "acme")
		require.NoError(t, err)

		newStart := now.Add(-2 * time.Hour)
		entry, err := svc.ModifyCurrentEntryStartTime(testCtx(), newStart)

		require.NoError(t, err)
		assert.Equal(t, newStart, entry.StartTime)
		current, _ := repo.FindCurrentEntry(testCtx(), 1)
		assert.Equal(t, newStart, current.StartTime)
	})

	t.Run("rejects a future start time", func(t *testing.T) {
		svc, _, _ := newTestService(now)
		_, err := svc.ClockIn(testCtx(), "acme")
		require.NoError(t, err)

		_, err = svc.ModifyCurrentEntryStartTime(testCtx(), now.Add(time.Hour))

		assert.Error(t, err)
	})

	t.Run("fails when nothing is running", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		_, err := svc.ModifyCurrentEntryStartTime(testCtx(), now.Add(-time.Hour))

		assert.ErrorIs(t, err, ErrNoCurrentEntry)
	})
}

func TestServiceImpl_WeeklySummary(t *testing.T) {
	// 2025-02-03 is a Monday.
	monday := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.Local)
	svc, repo, _ := newTestService(monday)

	seed := func(project string, start time.Time, d time.Duration) {
		repo.StoreEntry(context.Background(), 1, WorkEntry{
			Project:   project,
			StartTime: start,
			EndTime:   start.Add(d),
		})
	}
	seed("acme", monday.Add(9*time.Hour), 2*time.Hour)
	seed("acme", monday.AddDate(0, 0, 1).Add(9*time.Hour), time.Hour)
	seed("globex", monday.AddDate(0, 0, 1).Add(14*time.Hour), 30*time.Minute)
	// Previous week, must not count.
	seed("acme", monday.AddDate(0, 0, -3).Add(9*time.Hour), 8*time.Hour)

	summary, err := svc.WeeklySummary(testCtx(), monday.AddDate(0, 0, 2))

	require.NoError(t, err)
	assert.Equal(t, monday, summary.WeekStart)
	assert.Equal(t, 3*time.Hour+30*time.Minute, summary.Total)
	assert.Equal(t, 3*time.Hour, summary.ByProject["acme"])
	assert.Equal(t, 30*time.Minute, summary.ByProject["globex"])
	assert.Equal(t, 2*time.Hour, summary.ByDay[monday])
	assert.Equal(t, time.Hour+30*time.Minute, summary.ByDay[monday.AddDate(0, 0, 1)])
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2025, time.February, 9, 23, 30, 0, 0, time.Local)
	monday := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.Local)

	assert.Equal(t, monday, startOfWeek(sunday))
	assert.Equal(t, monday, startOfWeek(monday.Add(5*time.Hour)))
}
