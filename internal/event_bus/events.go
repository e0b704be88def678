package event_bus

const (
	MeetingCreatedType   EventType = "meeting.created"
	MeetingUpdatedType   EventType = "meeting.updated"
	MeetingDeletedType   EventType = "meeting.deleted"
	ExceptionCreatedType EventType = "meeting.exception.created"
	WorkEntryClosedType  EventType = "worklog.entry.closed"
)

// MeetingChanged is published after any successful meeting mutation. Series
// deletions carry WholeSeries=true and the id of the removed master.
type MeetingChanged struct {
	Id           int
	RecurrenceId string
	Title        string
	Type         int
	WholeSeries  bool
}

// ExceptionCreated is published when a single occurrence of a series is
// edited or removed through a materialized exception record.
type ExceptionCreated struct {
	Id            int
	RecurrenceId  string
	IndexInSeries int
	Deleted       bool
}

// WorkEntryClosed is published when a running attendance entry is clocked out.
type WorkEntryClosed struct {
	Id         int
	EmployeeId int
	Minutes    int
}
