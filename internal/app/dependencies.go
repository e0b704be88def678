package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/timedesk/timedesk/internal/config"
	"github.com/timedesk/timedesk/internal/event_bus"
	"github.com/timedesk/timedesk/internal/utils"
	"github.com/timedesk/timedesk/pkg/directory"
	"github.com/timedesk/timedesk/pkg/employee"
	"github.com/timedesk/timedesk/pkg/google"
	"github.com/timedesk/timedesk/pkg/meeting"
	"github.com/timedesk/timedesk/pkg/report"
	"github.com/timedesk/timedesk/pkg/worklog"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	EmployeeService employee.Service
	EmployeeHandler *employee.Handler

	GoogleAuth    *google.GoogleAuth
	GoogleService google.Service
	GoogleHandler *google.Handler

	MeetingRepo    meeting.Repository
	MeetingService meeting.Service
	MeetingCache   meeting.Cache
	MeetingHandler *meeting.Handler

	WorklogRepo    worklog.Repository
	WorklogService worklog.Service
	WorklogHandler *worklog.Handler

	ReportService report.Service
	CsvRenderer   *report.CsvRenderer
	ReportHandler *report.Handler

	DirectoryRepo    directory.Repository
	DirectoryService directory.Service
	DirectoryHandler *directory.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.EmployeeService = employee.NewService(employee.NewRepo(db))
	deps.EmployeeHandler = employee.NewHandler(deps.EmployeeService)

	deps.MeetingRepo = meeting.NewRepo(db)
	deps.MeetingService = meeting.NewService(deps.MeetingRepo, deps.EventBus)
	deps.MeetingCache = meeting.NewLruCache(128, time.Duration(cfg.Calendar.CacheTtlSeconds)*time.Second)
	deps.MeetingHandler = meeting.NewHandler(deps.MeetingService)

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.EmployeeService, cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth, deps.MeetingService)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	deps.WorklogRepo = worklog.NewRepo(db)
	deps.WorklogService = worklog.NewService(deps.WorklogRepo, deps.EventBus)
	deps.WorklogHandler = worklog.NewHandler(deps.WorklogService)

	deps.ReportService = report.NewService(deps.WorklogService, employeeNameProvider{deps.EmployeeService})
	deps.CsvRenderer = report.NewCsvRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvRenderer)

	deps.DirectoryRepo = directory.NewRepo(db)
	deps.DirectoryService = directory.NewService(deps.DirectoryRepo)
	deps.DirectoryHandler = directory.NewHandler(deps.DirectoryService)

	return deps
}

// NewCalendarSession builds a calendar session for one UI client. Sessions
// share the meeting service and the read-through cache, so concurrent clients
// of the same employee reuse one fetched meeting list until a mutation
// invalidates it.
func (d *Dependencies) NewCalendarSession() *meeting.Session {
	return meeting.NewSession(d.MeetingService, d.MeetingCache)
}

// employeeNameProvider adapts the employee service to the narrow view the
// report package needs.
type employeeNameProvider struct {
	service employee.Service
}

func (p employeeNameProvider) CurrentDisplayName(ctx context.Context) (string, error) {
	e, err := p.service.GetCurrentEmployee(ctx)
	if err != nil {
		return "", err
	}
	return e.DisplayName, nil
}
