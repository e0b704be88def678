package meeting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrMeetingNotFound = errors.New("meeting not found")

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	StoreMeeting(ctx context.Context, employeeId int, modal MeetingModal) (MeetingModal, error)
	UpdateMeeting(ctx context.Context, employeeId int, modal MeetingModal) (MeetingModal, error)
	GetMeetings(ctx context.Context, employeeId int) ([]Meeting, error)
	GetMeeting(ctx context.Context, employeeId int, id int) (MeetingModal, error)
	GetMeetingDetails(ctx context.Context, id int) (*MeetingDetails, error)
	// SetMeetingType flips the type discriminator of an existing record,
	// used to soft-delete an exception (3 -> 4).
	SetMeetingType(ctx context.Context, employeeId int, id int, meetingType int) error
	DeleteMeeting(ctx context.Context, employeeId int, id int) error
	// DeleteSeries removes the master and every exception sharing its
	// recurrence id.
	DeleteSeries(ctx context.Context, employeeId int, recurrenceId string) error
}

type repositoryImpl struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepo(db *sql.DB) Repository {
	return &repositoryImpl{db: db}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *repositoryImpl) getQueryer() interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &repositoryImpl{db: r.db, tx: tx}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

const meetingColumns = `id, recurrence_id, parent_id, title, start_time, end_time,
			all_day, rrule, ex_dates, index_in_series, type, employee_id`

func (r *repositoryImpl) StoreMeeting(ctx context.Context, employeeId int, modal MeetingModal) (MeetingModal, error) {
	m := modal.Meeting
	ruleJSON, exDatesJSON, err := encodeRecurrence(m)
	if err != nil {
		return MeetingModal{}, err
	}

	query := `INSERT INTO meetings (recurrence_id, parent_id, title, start_time, end_time,
			all_day, rrule, ex_dates, index_in_series, type, employee_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.getQueryer().ExecContext(ctx, query,
		nullString(m.RecurrenceId), nullString(m.ParentId), m.Title,
		m.Start, nullString(m.End), m.AllDay,
		ruleJSON, exDatesJSON, m.IndexInSeries, m.Type, employeeId)
	if err != nil {
		return MeetingModal{}, fmt.Errorf("could not store meeting: %w", err)
	}

	lastInsertId, err := result.LastInsertId()
	if err != nil {
		return MeetingModal{}, fmt.Errorf("could not retrieve last insert id: %w", err)
	}
	m.Id = int(lastInsertId)
	m.EmployeeId = employeeId

	if modal.Details != nil {
		modal.Details.MeetingId = m.Id
		if err := r.upsertDetails(ctx, *modal.Details); err != nil {
			return MeetingModal{}, err
		}
	}

	return MeetingModal{Meeting: m, Details: modal.Details}, nil
}

func (r *repositoryImpl) UpdateMeeting(ctx context.Context, employeeId int, modal MeetingModal) (MeetingModal, error) {
	m := modal.Meeting
	ruleJSON, exDatesJSON, err := encodeRecurrence(m)
	if err != nil {
		return MeetingModal{}, err
	}

	query := `UPDATE meetings
		SET recurrence_id = ?, parent_id = ?, title = ?, start_time = ?, end_time = ?,
			all_day = ?, rrule = ?, ex_dates = ?, index_in_series = ?, type = ?
		WHERE id = ? AND employee_id = ?`
	result, err := r.getQueryer().ExecContext(ctx, query,
		nullString(m.RecurrenceId), nullString(m.ParentId), m.Title,
		m.Start, nullString(m.End), m.AllDay,
		ruleJSON, exDatesJSON, m.IndexInSeries, m.Type,
		m.Id, employeeId)
	if err != nil {
		return MeetingModal{}, fmt.Errorf("could not update meeting: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return MeetingModal{}, fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return MeetingModal{}, ErrMeetingNotFound
	}
	m.EmployeeId = employeeId

	if modal.Details != nil {
		modal.Details.MeetingId = m.Id
		if err := r.upsertDetails(ctx, *modal.Details); err != nil {
			return MeetingModal{}, err
		}
	}

	return MeetingModal{Meeting: m, Details: modal.Details}, nil
}

func (r *repositoryImpl) GetMeetings(ctx context.Context, employeeId int) ([]Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		WHERE employee_id = ?
		ORDER BY start_time, id`
	rows, err := r.getQueryer().QueryContext(ctx, query, employeeId)
	if err != nil {
		return nil, fmt.Errorf("could not query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate meetings: %w", err)
	}
	return meetings, nil
}

func (r *repositoryImpl) GetMeeting(ctx context.Context, employeeId int, id int) (MeetingModal, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		WHERE id = ? AND employee_id = ?`
	row := r.getQueryer().QueryRowContext(ctx, query, id, employeeId)

	m, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MeetingModal{}, ErrMeetingNotFound
		}
		return MeetingModal{}, err
	}

	details, err := r.GetMeetingDetails(ctx, id)
	if err != nil {
		return MeetingModal{}, err
	}
	return MeetingModal{Meeting: m, Details: details}, nil
}

func (r *repositoryImpl) GetMeetingDetails(ctx context.Context, id int) (*MeetingDetails, error) {
	query := `SELECT meeting_id, location, meeting_link, description, reminder_minutes,
			is_private, category_id, status_id, city_id, project_id
		FROM meeting_details
		WHERE meeting_id = ?`
	row := r.getQueryer().QueryRowContext(ctx, query, id)

	var d MeetingDetails
	var location, meetingLink, description sql.NullString
	err := row.Scan(&d.MeetingId, &location, &meetingLink, &description, &d.ReminderMinutes,
		&d.IsPrivate, &d.CategoryId, &d.StatusId, &d.CityId, &d.ProjectId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not query meeting details: %w", err)
	}
	d.Location = location.String
	d.MeetingLink = meetingLink.String
	d.Description = description.String
	return &d, nil
}

func (r *repositoryImpl) SetMeetingType(ctx context.Context, employeeId int, id int, meetingType int) error {
	query := "UPDATE meetings SET type = ? WHERE id = ? AND employee_id = ?"
	result, err := r.getQueryer().ExecContext(ctx, query, meetingType, id, employeeId)
	if err != nil {
		return fmt.Errorf("could not update meeting type: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *repositoryImpl) DeleteMeeting(ctx context.Context, employeeId int, id int) error {
	query := "DELETE FROM meetings WHERE id = ? AND employee_id = ?"
	result, err := r.getQueryer().ExecContext(ctx, query, id, employeeId)
	if err != nil {
		return fmt.Errorf("could not delete meeting: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *repositoryImpl) DeleteSeries(ctx context.Context, employeeId int, recurrenceId string) error {
	query := "DELETE FROM meetings WHERE employee_id = ? AND recurrence_id = ?"
	if _, err := r.getQueryer().ExecContext(ctx, query, employeeId, recurrenceId); err != nil {
		return fmt.Errorf("could not delete series: %w", err)
	}
	return nil
}

func (r *repositoryImpl) upsertDetails(ctx context.Context, d MeetingDetails) error {
	query := `INSERT INTO meeting_details (meeting_id, location, meeting_link, description,
			reminder_minutes, is_private, category_id, status_id, city_id, project_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (meeting_id) DO UPDATE SET
			location = excluded.location,
			meeting_link = excluded.meeting_link,
			description = excluded.description,
			reminder_minutes = excluded.reminder_minutes,
			is_private = excluded.is_private,
			category_id = excluded.category_id,
			status_id = excluded.status_id,
			city_id = excluded.city_id,
			project_id = excluded.project_id`
	_, err := r.getQueryer().ExecContext(ctx, query,
		d.MeetingId, d.Location, d.MeetingLink, d.Description,
		d.ReminderMinutes, d.IsPrivate, d.CategoryId, d.StatusId, d.CityId, d.ProjectId)
	if err != nil {
		return fmt.Errorf("could not upsert meeting details: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeeting(row rowScanner) (Meeting, error) {
	var m Meeting
	var recurrenceId, parentId, endTime, ruleJSON, exDatesJSON sql.NullString
	var indexInSeries sql.NullInt64

	err := row.Scan(&m.Id, &recurrenceId, &parentId, &m.Title, &m.Start, &endTime,
		&m.AllDay, &ruleJSON, &exDatesJSON, &indexInSeries, &m.Type, &m.EmployeeId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Meeting{}, err
		}
		return Meeting{}, fmt.Errorf("could not scan meeting: %w", err)
	}

	m.RecurrenceId = recurrenceId.String
	m.ParentId = parentId.String
	m.End = endTime.String
	if indexInSeries.Valid {
		idx := int(indexInSeries.Int64)
		m.IndexInSeries = &idx
	}
	if ruleJSON.Valid && ruleJSON.String != "" {
		var rule RRule
		if err := json.Unmarshal([]byte(ruleJSON.String), &rule); err != nil {
			return Meeting{}, fmt.Errorf("could not decode recurrence rule of meeting %d: %w", m.Id, err)
		}
		m.RRule = &rule
	}
	if exDatesJSON.Valid && exDatesJSON.String != "" {
		if err := json.Unmarshal([]byte(exDatesJSON.String), &m.ExDate); err != nil {
			return Meeting{}, fmt.Errorf("could not decode exclusion dates of meeting %d: %w", m.Id, err)
		}
	}
	return m, nil
}

func encodeRecurrence(m Meeting) (ruleJSON *string, exDatesJSON *string, err error) {
	if m.RRule != nil {
		b, err := json.Marshal(m.RRule)
		if err != nil {
			return nil, nil, fmt.Errorf("could not encode recurrence rule: %w", err)
		}
		s := string(b)
		ruleJSON = &s
	}
	if len(m.ExDate) > 0 {
		b, err := json.Marshal(m.ExDate)
		if err != nil {
			return nil, nil, fmt.Errorf("could not encode exclusion dates: %w", err)
		}
		s := string(b)
		exDatesJSON = &s
	}
	return ruleJSON, exDatesJSON, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
