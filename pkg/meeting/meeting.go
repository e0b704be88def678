package meeting

// Meeting type discriminator. The value 2 is unused; the wire protocol has
// never assigned it.
const (
	TypeSingle    = 0 // plain non-recurring meeting
	TypeRecurring = 1 // master series owning a recurrence rule
	TypeException = 3 // single occurrence detached from a series with edits
	TypeDeleted   = 4 // exception flagged as removed
)

// Recurrence frequencies.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

// Meeting is the wire/persisted representation of one meeting series, single
// meeting, or series exception. Start and End are local wall-clock ISO
// strings (YYYY-MM-DDTHH:mm:ss, no timezone suffix); bare dates when AllDay.
type Meeting struct {
	Id            int      `json:"id"`
	RecurrenceId  string   `json:"recurrenceId,omitempty"`
	ParentId      string   `json:"parentId,omitempty"`
	Title         string   `json:"title"`
	Start         string   `json:"start"`
	End           string   `json:"end,omitempty"`
	AllDay        bool     `json:"allDay"`
	RRule         *RRule   `json:"rRule,omitempty"`
	ExDate        []string `json:"exDate,omitempty"`
	IndexInSeries *int     `json:"indexInSeries,omitempty"`
	Type          int      `json:"type"`
	EmployeeId    int      `json:"employeeId"`
}

// RRule is the recurrence definition owned by a master series. DtStart is the
// anchor of the first occurrence; its time-of-day must equal the series start
// time. Count and Until may both be present: whichever limit is reached first
// stops the expansion.
type RRule struct {
	Freq       string   `json:"freq"`
	DtStart    string   `json:"dtStart"`
	Until      string   `json:"until,omitempty"`
	Count      int      `json:"count,omitempty"`
	Interval   int      `json:"interval,omitempty"`
	ByWeekdays []string `json:"byweekdays,omitempty"`
}

// MeetingDetails holds the auxiliary, non-recurrence fields attached 1:1 to a
// meeting by id. Irrelevant to the recurrence logic.
type MeetingDetails struct {
	MeetingId       int    `json:"meetingId"`
	Location        string `json:"location,omitempty"`
	MeetingLink     string `json:"meetingLink,omitempty"`
	Description     string `json:"description,omitempty"`
	ReminderMinutes int    `json:"reminderMinutes,omitempty"`
	IsPrivate       bool   `json:"isPrivate,omitempty"`
	CategoryId      *int   `json:"categoryId,omitempty"`
	StatusId        *int   `json:"statusId,omitempty"`
	CityId          *int   `json:"cityId,omitempty"`
	ProjectId       *int   `json:"projectId,omitempty"`
}

// MeetingModal pairs one Meeting with its details: the unit exchanged with
// the persistence layer and the editing modal.
type MeetingModal struct {
	Meeting Meeting         `json:"meeting"`
	Details *MeetingDetails `json:"details,omitempty"`
}

// IsException reports whether the meeting is a detached occurrence record
// (edited or deleted).
func (m Meeting) IsException() bool {
	return m.Type == TypeException || m.Type == TypeDeleted
}
