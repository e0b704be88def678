package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timedesk/timedesk/internal/config"
	"github.com/timedesk/timedesk/internal/test_utils"
	"github.com/timedesk/timedesk/pkg/employee"
	"github.com/timedesk/timedesk/pkg/meeting"
)

func TestBuildDependencies(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	cfg := config.Application{Calendar: config.Calendar{CacheTtlSeconds: 60}}

	deps := BuildDependencies(db, cfg)

	require.NotNil(t, deps.EventBus)
	require.NotNil(t, deps.MeetingHandler)
	require.NotNil(t, deps.WorklogHandler)
	require.NotNil(t, deps.ReportHandler)
	require.NotNil(t, deps.DirectoryHandler)
	require.NotNil(t, deps.GoogleAuth)
	require.NotNil(t, deps.MeetingCache)
}

func TestNewCalendarSession_SharesTheMeetingCache(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	_, err := db.Exec("INSERT INTO employees (uid, display_name) VALUES ('test-employee', 'Test Employee')")
	require.NoError(t, err)

	deps := BuildDependencies(db, config.Application{Calendar: config.Calendar{CacheTtlSeconds: 60}})
	ctx := employee.WithEmployee(context.Background(), employee.Employee{Id: 1, Uid: "test-employee"})

	first := deps.NewCalendarSession()
	require.NoError(t, first.Load(ctx))
	require.Empty(t, first.Events())

	saved, err := deps.MeetingService.SaveMeeting(ctx, meeting.MeetingModal{Meeting: meeting.Meeting{
		Title: "Dentist",
		Start: "2025-02-03T09:00:00",
		End:   "2025-02-03T10:00:00",
		Type:  meeting.TypeSingle,
	}}, meeting.SaveModeInsert)
	require.NoError(t, err)
	assert.Greater(t, saved.Meeting.Id, 0)

	second := deps.NewCalendarSession()
	require.NoError(t, second.Load(ctx))
	assert.Empty(t, second.Events(), "the shared cache still serves the list fetched before the save")

	require.NoError(t, second.Reload(ctx))
	require.Len(t, second.Events(), 1)

	third := deps.NewCalendarSession()
	require.NoError(t, third.Load(ctx))
	assert.Len(t, third.Events(), 1, "the reload refreshed the cache for every session")
}
