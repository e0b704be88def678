package meeting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/event_bus"
	"github.com/timedesk/timedesk/pkg/employee"
)

// SaveMode tells SaveMeeting whether the record is new or an edit of an
// existing one.
type SaveMode string

const (
	SaveModeInsert SaveMode = "insert"
	SaveModeUpdate SaveMode = "update"
)

var ErrSeriesWithoutRule = errors.New("recurring meeting must carry a recurrence rule")

type Service interface {
	FetchMeetings(ctx context.Context) ([]Meeting, error)
	FetchMeetingDetail(ctx context.Context, id int) (MeetingModal, error)
	SaveMeeting(ctx context.Context, modal MeetingModal, mode SaveMode) (MeetingModal, error)
	// SoftDeleteException flips an existing exception record to the deleted
	// type, keeping its slot in the series occupied.
	SoftDeleteException(ctx context.Context, id int) error
	DeleteMeeting(ctx context.Context, m Meeting, wholeSeries bool) error
}

type ServiceImpl struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) FetchMeetings(ctx context.Context) ([]Meeting, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return nil, err
	}
	meetings, err := s.repo.GetMeetings(ctx, employeeId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meetings: %w", err)
	}
	return meetings, nil
}

func (s *ServiceImpl) FetchMeetingDetail(ctx context.Context, id int) (MeetingModal, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return MeetingModal{}, err
	}
	modal, err := s.repo.GetMeeting(ctx, employeeId, id)
	if err != nil {
		return MeetingModal{}, fmt.Errorf("failed to fetch meeting %d: %w", id, err)
	}
	return modal, nil
}

func (s *ServiceImpl) SaveMeeting(ctx context.Context, modal MeetingModal, mode SaveMode) (MeetingModal, error) {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return MeetingModal{}, err
	}
	if err := Validate(modal.Meeting); err != nil {
		return MeetingModal{}, err
	}
	modal.Meeting, err = normalize(modal.Meeting)
	if err != nil {
		return MeetingModal{}, err
	}

	var saved MeetingModal
	switch mode {
	case SaveModeUpdate:
		saved, err = s.repo.UpdateMeeting(ctx, employeeId, modal)
	default:
		saved, err = s.repo.StoreMeeting(ctx, employeeId, modal)
	}
	if err != nil {
		return MeetingModal{}, fmt.Errorf("failed to save meeting: %w", err)
	}

	s.publishSaved(ctx, saved.Meeting, mode)
	return saved, nil
}

// normalize enforces the type/rule ownership invariants before persistence:
// only a master series (type 1) owns a rule and exclusion dates, and every
// master carries a stable recurrence id so its exceptions can find it.
func normalize(m Meeting) (Meeting, error) {
	if m.Type == TypeRecurring {
		if m.RRule == nil {
			return Meeting{}, ErrSeriesWithoutRule
		}
		if m.RRule.DtStart == "" {
			m.RRule.DtStart = m.Start
		}
		if m.RecurrenceId == "" {
			m.RecurrenceId = uuid.NewString()
		}
		return m, nil
	}
	m.RRule = nil
	m.ExDate = nil
	return m, nil
}

func (s *ServiceImpl) publishSaved(ctx context.Context, m Meeting, mode SaveMode) {
	eventType := event_bus.MeetingCreatedType
	if mode == SaveModeUpdate {
		eventType = event_bus.MeetingUpdatedType
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.MeetingChanged{
		Id:           m.Id,
		RecurrenceId: m.RecurrenceId,
		Title:        m.Title,
		Type:         m.Type,
	})); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}

	if m.IsException() {
		index := -1
		if m.IndexInSeries != nil {
			index = *m.IndexInSeries
		}
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ExceptionCreatedType, event_bus.ExceptionCreated{
			Id:            m.Id,
			RecurrenceId:  m.RecurrenceId,
			IndexInSeries: index,
			Deleted:       m.Type == TypeDeleted,
		})); err != nil {
			log.Errorf("failed to publish exception event: %v", err)
		}
	}
}

func (s *ServiceImpl) SoftDeleteException(ctx context.Context, id int) error {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return err
	}
	modal, err := s.repo.GetMeeting(ctx, employeeId, id)
	if err != nil {
		return fmt.Errorf("failed to load exception %d: %w", id, err)
	}
	if !modal.Meeting.IsException() {
		return fmt.Errorf("meeting %d is not an exception record", id)
	}
	if err := s.repo.SetMeetingType(ctx, employeeId, id, TypeDeleted); err != nil {
		return fmt.Errorf("failed to soft delete exception %d: %w", id, err)
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.MeetingDeletedType, event_bus.MeetingChanged{
		Id:           id,
		RecurrenceId: modal.Meeting.RecurrenceId,
		Title:        modal.Meeting.Title,
		Type:         TypeDeleted,
	})); err != nil {
		log.Errorf("failed to publish meeting deleted: %v", err)
	}
	return nil
}

func (s *ServiceImpl) DeleteMeeting(ctx context.Context, m Meeting, wholeSeries bool) error {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return err
	}

	if wholeSeries && m.RecurrenceId != "" {
		err = s.repo.WithTransaction(ctx, func(repo Repository) error {
			return repo.DeleteSeries(ctx, employeeId, m.RecurrenceId)
		})
	} else {
		err = s.repo.DeleteMeeting(ctx, employeeId, m.Id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete meeting %d: %w", m.Id, err)
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.MeetingDeletedType, event_bus.MeetingChanged{
		Id:           m.Id,
		RecurrenceId: m.RecurrenceId,
		Title:        m.Title,
		Type:         m.Type,
		WholeSeries:  wholeSeries,
	})); err != nil {
		log.Errorf("failed to publish meeting deleted: %v", err)
	}
	return nil
}
