package google

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/pkg/employee"
	"github.com/timedesk/timedesk/pkg/meeting"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrUnauthenticated = fmt.Errorf("employee is unauthenticated, authentication is required")

type CalendarItem struct {
	ID      string
	Summary string
}

type Service interface {
	ListCalendars(ctx context.Context) ([]CalendarItem, error)
	// ExportOccurrences pushes the employee's expanded meeting occurrences
	// within [from, to] to their configured Google calendar.
	ExportOccurrences(ctx context.Context, from time.Time, to time.Time) (int, error)
}

type ServiceImpl struct {
	auth     *GoogleAuth
	meetings meeting.Service
}

func NewService(auth *GoogleAuth, meetingService meeting.Service) *ServiceImpl {
	return &ServiceImpl{auth: auth, meetings: meetingService}
}

func (s *ServiceImpl) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}

	googleService, err := s.prepareGoogleService(ctx, employeeId)
	if err != nil {
		return nil, err
	}
	calendars, err := googleService.CalendarList.List().Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	var items []CalendarItem
	for _, cal := range calendars.Items {
		items = append(items, CalendarItem{ID: cal.Id, Summary: cal.Summary})
	}
	return items, nil
}

func (s *ServiceImpl) ExportOccurrences(ctx context.Context, from time.Time, to time.Time) (int, error) {
	currentEmployee, err := employee.CurrentEmployee(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current employee: %w", err)
	}
	calendarId := currentEmployee.Settings.GoogleCalendarId
	if calendarId == "" {
		return 0, fmt.Errorf("employee has no Google calendar configured")
	}

	googleService, err := s.prepareGoogleService(ctx, currentEmployee.Id)
	if err != nil {
		return 0, err
	}

	meetings, err := s.meetings.FetchMeetings(ctx)
	if err != nil {
		return 0, err
	}
	occurrences := meeting.ExpandOccurrences(meetings, from, to)

	exported := 0
	for _, occ := range occurrences {
		_, err := googleService.Events.Insert(calendarId, &calendar.Event{
			Summary: occ.Meeting.Title,
			Start:   &calendar.EventDateTime{DateTime: occ.Start.Format(time.RFC3339)},
			End:     &calendar.EventDateTime{DateTime: occ.End.Format(time.RFC3339)},
		}).Do()
		if err != nil {
			err := fmt.Errorf("unable to insert event in Google Calendar: %v", err)
			log.Error(err)
			return exported, err
		}
		exported++
	}
	log.Debugf("Exported %d occurrences to Google calendar %s", exported, calendarId)
	return exported, nil
}

func (s *ServiceImpl) prepareGoogleService(ctx context.Context, employeeId int) (*calendar.Service, error) {
	client, err := s.auth.getClient(ctx, employeeId)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Google auth client: %v", err)
		log.Error(err)
		return nil, err
	}
	if client == nil {
		log.Debug("employee is unauthenticated, authentication is required")
		return nil, ErrUnauthenticated
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}

	return service, nil
}
