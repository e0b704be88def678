package report

import (
	"context"
	"fmt"
	"time"

	"github.com/timedesk/timedesk/pkg/worklog"
)

// WeeklyReport is the per-employee attendance report for one week, built from
// the worklog summary and joined with the employee identity.
type WeeklyReport struct {
	EmployeeName string
	WeekStart    time.Time
	Days         []DailyTotal
	ByProject    map[string]time.Duration
	Total        time.Duration
}

type DailyTotal struct {
	Date     time.Time
	Duration time.Duration
}

type Service interface {
	WeeklyReport(ctx context.Context, day time.Time) (WeeklyReport, error)
}

type ServiceImpl struct {
	worklog  worklog.Service
	employee EmployeeNameProvider
}

// EmployeeNameProvider resolves the display name of the current employee.
type EmployeeNameProvider interface {
	CurrentDisplayName(ctx context.Context) (string, error)
}

func NewService(worklogService worklog.Service, employeeProvider EmployeeNameProvider) *ServiceImpl {
	return &ServiceImpl{worklog: worklogService, employee: employeeProvider}
}

func (s *ServiceImpl) WeeklyReport(ctx context.Context, day time.Time) (WeeklyReport, error) {
	summary, err := s.worklog.WeeklySummary(ctx, day)
	if err != nil {
		return WeeklyReport{}, fmt.Errorf("failed to build weekly summary: %w", err)
	}

	name, err := s.employee.CurrentDisplayName(ctx)
	if err != nil {
		return WeeklyReport{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	report := WeeklyReport{
		EmployeeName: name,
		WeekStart:    summary.WeekStart,
		ByProject:    summary.ByProject,
		Total:        summary.Total,
	}
	for i := 0; i < 7; i++ {
		date := summary.WeekStart.AddDate(0, 0, i)
		report.Days = append(report.Days, DailyTotal{
			Date:     date,
			Duration: summary.ByDay[date],
		})
	}
	return report, nil
}
