package worklog

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/event_bus"
	"github.com/timedesk/timedesk/internal/utils"
	"github.com/timedesk/timedesk/pkg/employee"
)

var ErrNoCurrentEntry = errors.New("no running work entry")

type Service interface {
	FindCurrentEntry(ctx context.Context) (*WorkEntry, error)
	// ClockIn starts a new entry. A still-running entry is finished first
	// so at most one entry runs per employee.
	ClockIn(ctx context.Context, project string) (WorkEntry, error)
	// ClockOut finishes the running entry.
	ClockOut(ctx context.Context) (WorkEntry, error)
	ModifyCurrentEntryStartTime(ctx context.Context, newStartTime time.Time) (WorkEntry, error)
	GetLastEntries(ctx context.Context, limit int) ([]WorkEntry, error)
	// WeeklySummary aggregates finished entries for the week containing day.
	WeeklySummary(ctx context.Context, day time.Time) (WeeklySummary, error)
}

type ServiceImpl struct {
	repo  Repository
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: &utils.SystemClock{}}
}

func (s *ServiceImpl) FindCurrentEntry(ctx context.Context) (*WorkEntry, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.repo.FindCurrentEntry(ctx, employeeId)
}

func (s *ServiceImpl) ClockIn(ctx context.Context, project string) (WorkEntry, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return WorkEntry{}, fmt.Errorf("failed to get current employee: %w", err)
	}

	current, err := s.repo.FindCurrentEntry(ctx, employeeId)
	if err != nil {
		return WorkEntry{}, err
	}
	if current != nil {
		log.Debug("Entry already running, finishing it before clocking in again")
		if _, err := s.ClockOut(ctx); err != nil {
			return WorkEntry{}, err
		}
	}

	return s.repo.StoreEntry(ctx, employeeId, WorkEntry{
		Project:   project,
		StartTime: s.clock.Now(),
	})
}

func (s *ServiceImpl) ClockOut(ctx context.Context) (WorkEntry, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return WorkEntry{}, fmt.Errorf("failed to get current employee: %w", err)
	}

	current, err := s.repo.FindCurrentEntry(ctx, employeeId)
	if err != nil {
		return WorkEntry{}, err
	}
	if current == nil {
		return WorkEntry{}, ErrNoCurrentEntry
	}

	endTime := s.clock.Now()
	if err := s.repo.FinishEntry(ctx, employeeId, current.Id, endTime); err != nil {
		return WorkEntry{}, err
	}
	current.EndTime = endTime

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.WorkEntryClosedType, event_bus.WorkEntryClosed{
		Id:         current.Id,
		EmployeeId: employeeId,
		Minutes:    int(current.Duration(endTime).Minutes()),
	})); err != nil {
		log.Errorf("failed to publish work entry closed: %v", err)
	}

	return *current, nil
}

func (s *ServiceImpl) ModifyCurrentEntryStartTime(ctx context.Context, newStartTime time.Time) (WorkEntry, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return WorkEntry{}, fmt.Errorf("failed to get current employee: %w", err)
	}

	current, err := s.repo.FindCurrentEntry(ctx, employeeId)
	if err != nil {
		return WorkEntry{}, err
	}
	if current == nil {
		return WorkEntry{}, ErrNoCurrentEntry
	}
	if newStartTime.After(s.clock.Now()) {
		return WorkEntry{}, fmt.Errorf("start time cannot be in the future")
	}

	if err := s.repo.UpdateCurrentEntryStartTime(ctx, employeeId, newStartTime); err != nil {
		return WorkEntry{}, err
	}
	current.StartTime = newStartTime
	return *current, nil
}

func (s *ServiceImpl) GetLastEntries(ctx context.Context, limit int) ([]WorkEntry, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current employee: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetLastEntries(ctx, employeeId, limit)
}

func (s *ServiceImpl) WeeklySummary(ctx context.Context, day time.Time) (WeeklySummary, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("failed to get current employee: %w", err)
	}

	weekStart := startOfWeek(day)
	weekEnd := weekStart.AddDate(0, 0, 7)
	entries, err := s.repo.GetEntriesBetween(ctx, employeeId, weekStart, weekEnd)
	if err != nil {
		return WeeklySummary{}, err
	}

	summary := WeeklySummary{
		WeekStart: weekStart,
		ByDay:     make(map[time.Time]time.Duration),
		ByProject: make(map[string]time.Duration),
	}
	for _, entry := range entries {
		d := entry.Duration(entry.EndTime)
		dayKey := time.Date(entry.StartTime.Year(), entry.StartTime.Month(), entry.StartTime.Day(), 0, 0, 0, 0, entry.StartTime.Location())
		summary.ByDay[dayKey] += d
		summary.ByProject[entry.Project] += d
		summary.Total += d
	}
	return summary, nil
}

// startOfWeek returns midnight of the Monday of day's week.
func startOfWeek(day time.Time) time.Time {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}
