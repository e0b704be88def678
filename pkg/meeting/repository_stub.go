package meeting

import (
	"context"
	"sync"
)

// RepositoryStub is an in-memory Repository for service and session tests.
type RepositoryStub struct {
	mu       sync.RWMutex
	meetings map[int]Meeting
	details  map[int]MeetingDetails
	owners   map[int]int // meeting id -> employee id
	nextId   int

	// Errs, when set, is returned by every mutating call.
	Errs error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		meetings: make(map[int]Meeting),
		details:  make(map[int]MeetingDetails),
		owners:   make(map[int]int),
		nextId:   1,
	}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	original := make(map[int]Meeting, len(r.meetings))
	for k, v := range r.meetings {
		original[k] = v
	}
	originalDetails := make(map[int]MeetingDetails, len(r.details))
	for k, v := range r.details {
		originalDetails[k] = v
	}
	originalOwners := make(map[int]int, len(r.owners))
	for k, v := range r.owners {
		originalOwners[k] = v
	}
	originalNextId := r.nextId
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.meetings = original
		r.details = originalDetails
		r.owners = originalOwners
		r.nextId = originalNextId
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) StoreMeeting(ctx context.Context, employeeId int, modal MeetingModal) (MeetingModal, error) {
	if r.Errs != nil {
		return MeetingModal{}, r.Errs
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := modal.Meeting
	m.Id = r.nextId
	m.EmployeeId = employeeId
	r.nextId++
	r.meetings[m.Id] = m
	r.owners[m.Id] = employeeId
	if modal.Details != nil {
		d := *modal.Details
		d.MeetingId = m.Id
		r.details[m.Id] = d
		modal.Details = &d
	}
	return MeetingModal{Meeting: m, Details: modal.Details}, nil
}

func (r *RepositoryStub) UpdateMeeting(ctx context.Context, employeeId int, modal MeetingModal) (MeetingModal, error) {
	if r.Errs != nil {
		return MeetingModal{}, r.Errs
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := modal.Meeting
	if _, ok := r.meetings[m.Id]; !ok || r.owners[m.Id] != employeeId {
		return MeetingModal{}, ErrMeetingNotFound
	}
	m.EmployeeId = employeeId
	r.meetings[m.Id] = m
	if modal.Details != nil {
		d := *modal.Details
		d.MeetingId = m.Id
		r.details[m.Id] = d
		modal.Details = &d
	}
	return MeetingModal{Meeting: m, Details: modal.Details}, nil
}

func (r *RepositoryStub) GetMeetings(ctx context.Context, employeeId int) ([]Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Meeting
	for id := 1; id < r.nextId; id++ {
		m, ok := r.meetings[id]
		if ok && r.owners[id] == employeeId {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *RepositoryStub) GetMeeting(ctx context.Context, employeeId int, id int) (MeetingModal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.meetings[id]
	if !ok || r.owners[id] != employeeId {
		return MeetingModal{}, ErrMeetingNotFound
	}
	var details *MeetingDetails
	if d, ok := r.details[id]; ok {
		details = &d
	}
	return MeetingModal{Meeting: m, Details: details}, nil
}

func (r *RepositoryStub) GetMeetingDetails(ctx context.Context, id int) (*MeetingDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.details[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (r *RepositoryStub) SetMeetingType(ctx context.Context, employeeId int, id int, meetingType int) error {
	if r.Errs != nil {
		return r.Errs
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.meetings[id]
	if !ok || r.owners[id] != employeeId {
		return ErrMeetingNotFound
	}
	m.Type = meetingType
	r.meetings[id] = m
	return nil
}

func (r *RepositoryStub) DeleteMeeting(ctx context.Context, employeeId int, id int) error {
	if r.Errs != nil {
		return r.Errs
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[id]; !ok || r.owners[id] != employeeId {
		return ErrMeetingNotFound
	}
	delete(r.meetings, id)
	delete(r.details, id)
	delete(r.owners, id)
	return nil
}

func (r *RepositoryStub) DeleteSeries(ctx context.Context, employeeId int, recurrenceId string) error {
	if r.Errs != nil {
		return r.Errs
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.meetings {
		if r.owners[id] == employeeId && m.RecurrenceId == recurrenceId {
			delete(r.meetings, id)
			delete(r.details, id)
			delete(r.owners, id)
		}
	}
	return nil
}
