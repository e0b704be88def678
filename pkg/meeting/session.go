package meeting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timedesk/timedesk/internal/utils"
	"github.com/timedesk/timedesk/pkg/employee"
)

// InteractionState tracks where a calendar session is within the
// click/edit/delete flow. Transitions only happen through the Session methods.
type InteractionState string

const (
	StateIdle InteractionState = "idle"
	// StateAwaitingSeriesConfirmation: a series occurrence was clicked and
	// the user must choose between editing the whole series or just this
	// occurrence.
	StateAwaitingSeriesConfirmation InteractionState = "awaiting_series_confirmation"
	// StateEditingOccurrence: editing a single meeting, a persisted
	// exception, or a freshly materialized (unsaved) exception.
	StateEditingOccurrence InteractionState = "editing_occurrence"
	// StateEditingSeries: editing the master record of a recurring series.
	StateEditingSeries InteractionState = "editing_series"
	// StateDeleteRequested: a delete was asked for and awaits confirmation.
	StateDeleteRequested InteractionState = "delete_requested"
)

var ErrNoSelection = errors.New("no meeting selected")

// Session drives one employee's calendar view: it holds the projected events,
// the current interaction state, and the meeting under edit. All mutations go
// through the service; after any successful mutation the full list is
// reloaded so the projection never drifts from the store.
type Session struct {
	svc   Service
	cache Cache

	mu          sync.Mutex
	state       InteractionState
	events      []RenderableEvent
	selected    *MeetingModal
	pendingDate time.Time
	inFlight    bool
}

func NewSession(svc Service, cache Cache) *Session {
	return &Session{svc: svc, cache: cache, state: StateIdle}
}

func (s *Session) State() InteractionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Events() []RenderableEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RenderableEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Session) Selected() *MeetingModal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	modal := *s.selected
	return &modal
}

// Load fills the session with the employee's projected events, reading
// through the cache.
func (s *Session) Load(ctx context.Context) error {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return err
	}
	key := strconv.Itoa(employeeId)

	meetings, ok := s.cache.Get(key)
	if !ok {
		meetings, err = s.svc.FetchMeetings(ctx)
		if err != nil {
			return err
		}
		s.cache.Set(key, meetings)
	}

	events := ProjectForCalendar(meetings)
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return nil
}

// Reload drops the cache entry and loads fresh data. Called after every
// successful mutation.
func (s *Session) Reload(ctx context.Context) error {
	employeeId, err := employee.CurrentId(ctx)
	if err != nil {
		return err
	}
	s.cache.Invalidate(strconv.Itoa(employeeId))
	return s.Load(ctx)
}

// ClickEvent handles a click on a rendered occurrence. A meeting whose detail
// can no longer be fetched is ignored without error: the list may be stale
// and the next reload resolves it. Clicking a series occurrence parks the
// session until the user chooses series-or-occurrence; anything else goes
// straight to editing.
func (s *Session) ClickEvent(ctx context.Context, meetingId int, occurrenceDate time.Time) error {
	modal, err := s.svc.FetchMeetingDetail(ctx, meetingId)
	if err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			log.Debugf("click on vanished meeting %d ignored", meetingId)
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &modal
	s.pendingDate = occurrenceDate
	if modal.Meeting.Type == TypeRecurring {
		s.state = StateAwaitingSeriesConfirmation
	} else {
		s.state = StateEditingOccurrence
	}
	return nil
}

// ConfirmSeriesEdit resolves the series-or-occurrence choice. Editing the
// whole series keeps the master selected; declining materializes an unsaved
// exception for the clicked date and edits that instead.
func (s *Session) ConfirmSeriesEdit(wholeSeries bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingSeriesConfirmation || s.selected == nil {
		return fmt.Errorf("no series confirmation pending")
	}
	if wholeSeries {
		s.state = StateEditingSeries
		return nil
	}
	exception := NewExceptionFromSeries(*s.selected, s.pendingDate, false)
	s.selected = &exception
	s.state = StateEditingOccurrence
	return nil
}

// SaveEdited persists the meeting currently under edit. An unsaved record
// (id 0) inserts, anything else updates. A save already in flight makes the
// call a no-op so double submission cannot create duplicates.
func (s *Session) SaveEdited(ctx context.Context, modal MeetingModal) error {
	if !s.beginMutation() {
		log.Debug("save ignored: another mutation is in flight")
		return nil
	}
	defer s.endMutation()

	mode := SaveModeInsert
	if modal.Meeting.Id > 0 {
		mode = SaveModeUpdate
	}
	if _, err := s.svc.SaveMeeting(ctx, modal, mode); err != nil {
		return err
	}

	s.resetInteraction()
	return s.Reload(ctx)
}

// RequestDelete moves the session into delete confirmation for the currently
// selected meeting.
func (s *Session) RequestDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return ErrNoSelection
	}
	s.state = StateDeleteRequested
	return nil
}

// ConfirmDelete executes the pending delete. What actually happens depends on
// the selected record:
//   - a single meeting is deleted outright;
//   - a persisted exception is soft-deleted (type flip to 4);
//   - an unsaved materialized exception is inserted directly as deleted;
//   - a series master goes away entirely with wholeSeries, otherwise only
//     the clicked occurrence is removed via a deleted-exception record.
//
// A delete already in flight makes the call a no-op.
func (s *Session) ConfirmDelete(ctx context.Context, wholeSeries bool) error {
	if !s.beginMutation() {
		log.Debug("delete ignored: another mutation is in flight")
		return nil
	}
	defer s.endMutation()

	s.mu.Lock()
	if s.state != StateDeleteRequested || s.selected == nil {
		s.mu.Unlock()
		return fmt.Errorf("no delete pending")
	}
	selected := *s.selected
	pendingDate := s.pendingDate
	s.mu.Unlock()

	var err error
	m := selected.Meeting
	switch {
	case m.Type == TypeSingle:
		err = s.svc.DeleteMeeting(ctx, m, false)
	case m.Type == TypeException && m.Id > 0:
		err = s.svc.SoftDeleteException(ctx, m.Id)
	case m.IsException():
		// Unsaved materialized exception (or an already-deleted record
		// being re-asserted): persist it as deleted.
		deleted := selected
		deleted.Meeting.Type = TypeDeleted
		_, err = s.svc.SaveMeeting(ctx, deleted, SaveModeInsert)
	case m.Type == TypeRecurring && wholeSeries:
		err = s.svc.DeleteMeeting(ctx, m, true)
	case m.Type == TypeRecurring:
		exception := NewExceptionFromSeries(selected, pendingDate, true)
		_, err = s.svc.SaveMeeting(ctx, exception, SaveModeInsert)
	default:
		err = fmt.Errorf("cannot delete meeting of type %d", m.Type)
	}
	if err != nil {
		return err
	}

	s.resetInteraction()
	return s.Reload(ctx)
}

// CancelInteraction aborts whatever flow is pending and returns to idle.
// Nothing is persisted.
func (s *Session) CancelInteraction() {
	s.resetInteraction()
}

// Search finds the first event whose title contains query (case-insensitive)
// and returns the date the calendar should jump to.
func (s *Session) Search(query string) (time.Time, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return time.Time{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if !strings.Contains(strings.ToLower(ev.Title), needle) {
			continue
		}
		if t, err := utils.ParseLocal(ev.Start); err == nil {
			return t, true
		}
		if ev.Meeting.RRule != nil {
			if t, err := utils.ParseLocal(ev.Meeting.RRule.DtStart); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// MoveOccurrence persists a drag of one occurrence to a new date. Moving an
// occurrence of a series materializes an exception on the new date; moving a
// single meeting or exception shifts the record itself.
func (s *Session) MoveOccurrence(ctx context.Context, meetingId int, from time.Time, to time.Time) error {
	if !s.beginMutation() {
		log.Debug("move ignored: another mutation is in flight")
		return nil
	}
	defer s.endMutation()

	modal, err := s.svc.FetchMeetingDetail(ctx, meetingId)
	if err != nil {
		if errors.Is(err, ErrMeetingNotFound) {
			log.Debugf("move of vanished meeting %d ignored", meetingId)
			return nil
		}
		return err
	}

	if modal.Meeting.Type == TypeRecurring {
		exception := NewExceptionFromSeries(modal, from, false)
		exception.Meeting = shiftToDate(exception.Meeting, to)
		if _, err := s.svc.SaveMeeting(ctx, exception, SaveModeInsert); err != nil {
			return err
		}
	} else {
		modal.Meeting = shiftToDate(modal.Meeting, to)
		if _, err := s.svc.SaveMeeting(ctx, modal, SaveModeUpdate); err != nil {
			return err
		}
	}

	return s.Reload(ctx)
}

// PreviewMove returns the event as it would render on the target date,
// without touching the store. Used for drag feedback.
func (s *Session) PreviewMove(meetingId int, to time.Time) (RenderableEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Id != meetingId {
			continue
		}
		preview := ev
		preview.Meeting = shiftToDate(ev.Meeting, to)
		preview.Start = preview.Meeting.Start
		preview.End = preview.Meeting.End
		return preview, true
	}
	return RenderableEvent{}, false
}

// shiftToDate moves a meeting's start and end to the target date, preserving
// the time-of-day and the duration.
func shiftToDate(m Meeting, to time.Time) Meeting {
	start, err := utils.ParseLocal(m.Start)
	if err != nil {
		return m
	}
	newStart := utils.MergeDateWithTime(to, start)
	m.Start = utils.ToLocalISOString(newStart)
	if m.End != "" {
		if end, err := utils.ParseLocal(m.End); err == nil {
			m.End = utils.ToLocalISOString(newStart.Add(end.Sub(start)))
		}
	}
	return m
}

func (s *Session) beginMutation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Session) endMutation() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *Session) resetInteraction() {
	s.mu.Lock()
	s.state = StateIdle
	s.selected = nil
	s.pendingDate = time.Time{}
	s.mu.Unlock()
}
