package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrEmployeeNotFound = errors.New("employee does not exist")

type Repo interface {
	CreateEmployee(ctx context.Context, e Employee) (int, error)
	GetEmployee(ctx context.Context, id int) (Employee, error)
	GetEmployeeByUid(ctx context.Context, uid string) (Employee, error)
	UpdateEmployee(ctx context.Context, employeeId int, e Employee) (Employee, error)
	GetAllEmployees(ctx context.Context) ([]Employee, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateEmployee(ctx context.Context, e Employee) (int, error) {
	query := `INSERT INTO employees (uid, display_name, email, phone, role, timezone, google_calendar_id)
				VALUES (?, ?, ?, ?, ?, ?, ?)`

	timezone := e.Settings.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	result, err := r.db.ExecContext(ctx, query, e.Uid, e.DisplayName, e.Email, e.Phone, e.Role, timezone, e.Settings.GoogleCalendarId)
	if err != nil {
		log.Errorf("failed to create employee: %v", err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not read created employee id: %w", err)
	}
	return int(id), nil
}

func (r *RepoImpl) GetEmployee(ctx context.Context, id int) (Employee, error) {
	query := `SELECT id, uid, display_name, email, phone, role, timezone, google_calendar_id
				FROM employees WHERE id = ?`
	return r.scanEmployee(r.db.QueryRowContext(ctx, query, id))
}

func (r *RepoImpl) GetEmployeeByUid(ctx context.Context, uid string) (Employee, error) {
	query := `SELECT id, uid, display_name, email, phone, role, timezone, google_calendar_id
				FROM employees WHERE uid = ?`
	return r.scanEmployee(r.db.QueryRowContext(ctx, query, uid))
}

func (r *RepoImpl) scanEmployee(row *sql.Row) (Employee, error) {
	var e Employee
	var googleCalendarId sql.NullString
	err := row.Scan(
		&e.Id,
		&e.Uid,
		&e.DisplayName,
		&e.Email,
		&e.Phone,
		&e.Role,
		&e.Settings.Timezone,
		&googleCalendarId,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	} else if err != nil {
		log.Errorf("failed to get employee: %v", err)
		return Employee{}, err
	}
	if googleCalendarId.Valid {
		e.Settings.GoogleCalendarId = googleCalendarId.String
	}
	return e, nil
}

func (r *RepoImpl) UpdateEmployee(ctx context.Context, employeeId int, e Employee) (Employee, error) {
	query := `UPDATE employees SET display_name = ?, email = ?, phone = ?, role = ?, timezone = ?, google_calendar_id = ?
				WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, e.DisplayName, e.Email, e.Phone, e.Role, e.Settings.Timezone, e.Settings.GoogleCalendarId, employeeId)
	if err != nil {
		log.Errorf("failed to update employee %d: %v", employeeId, err)
		return Employee{}, err
	}
	e.Id = employeeId
	return e, nil
}

func (r *RepoImpl) GetAllEmployees(ctx context.Context) ([]Employee, error) {
	query := `SELECT id, uid, display_name, email, phone, role, timezone, google_calendar_id
				FROM employees ORDER BY display_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Errorf("failed to list employees: %v", err)
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0, 10)
	for rows.Next() {
		var e Employee
		var googleCalendarId sql.NullString
		err := rows.Scan(&e.Id, &e.Uid, &e.DisplayName, &e.Email, &e.Phone, &e.Role, &e.Settings.Timezone, &googleCalendarId)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		if googleCalendarId.Valid {
			e.Settings.GoogleCalendarId = googleCalendarId.String
		}
		employees = append(employees, e)
	}
	return employees, nil
}
