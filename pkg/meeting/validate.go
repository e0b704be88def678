package meeting

import (
	"errors"
	"time"

	"github.com/timedesk/timedesk/internal/utils"
)

// User-correctable validation errors. These block submission before any
// persistence call is made.
var (
	ErrEmptyTitle   = errors.New("title must not be empty")
	ErrMissingStart = errors.New("start date is required")
	ErrInvalidStart = errors.New("start date is not a valid date")
	ErrEndTooEarly  = errors.New("end time must be at least 5 minutes after start time")
)

const minDuration = 5 * time.Minute

// Validate checks the user-editable fields of a meeting. All-day meetings are
// exempt from the minimum-duration rule.
func Validate(m Meeting) error {
	if m.Title == "" {
		return ErrEmptyTitle
	}
	if m.Start == "" {
		return ErrMissingStart
	}
	start, err := utils.ParseLocal(m.Start)
	if err != nil {
		return ErrInvalidStart
	}
	if m.AllDay || m.End == "" {
		return nil
	}
	end, err := utils.ParseLocal(m.End)
	if err != nil {
		return ErrEndTooEarly
	}
	if end.Before(start.Add(minDuration)) {
		return ErrEndTooEarly
	}
	return nil
}
