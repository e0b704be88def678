package worklog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	StoreEntry(ctx context.Context, employeeId int, entry WorkEntry) (WorkEntry, error)
	FinishEntry(ctx context.Context, employeeId int, id int, endTime time.Time) error
	FindCurrentEntry(ctx context.Context, employeeId int) (*WorkEntry, error)
	UpdateCurrentEntryStartTime(ctx context.Context, employeeId int, startTime time.Time) error
	// GetLastEntries returns finished entries, newest first.
	GetLastEntries(ctx context.Context, employeeId int, limit int) ([]WorkEntry, error)
	// GetEntriesBetween returns finished entries overlapping [from, to),
	// oldest first.
	GetEntriesBetween(ctx context.Context, employeeId int, from time.Time, to time.Time) ([]WorkEntry, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreEntry(ctx context.Context, employeeId int, entry WorkEntry) (WorkEntry, error) {
	query := "INSERT INTO work_entries (employee_id, project, start_time, end_time) VALUES (?, ?, ?, ?)"

	var endMillis *int64
	if !entry.EndTime.IsZero() {
		v := entry.EndTime.UnixMilli()
		endMillis = &v
	}
	result, err := r.db.ExecContext(ctx, query, employeeId, entry.Project, entry.StartTime.UnixMilli(), endMillis)
	if err != nil {
		err := fmt.Errorf("could not store work entry: %w", err)
		log.Error(err)
		return WorkEntry{}, err
	}

	lastInsertId, err := result.LastInsertId()
	if err != nil {
		return WorkEntry{}, fmt.Errorf("could not retrieve last insert id: %w", err)
	}
	entry.Id = int(lastInsertId)
	entry.EmployeeId = employeeId
	return entry, nil
}

func (r *RepositoryImpl) FinishEntry(ctx context.Context, employeeId int, id int, endTime time.Time) error {
	query := "UPDATE work_entries SET end_time = ? WHERE id = ? AND employee_id = ? AND end_time IS NULL"
	result, err := r.db.ExecContext(ctx, query, endTime.UnixMilli(), id, employeeId)
	if err != nil {
		return fmt.Errorf("could not finish work entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNoCurrentEntry
	}
	return nil
}

func (r *RepositoryImpl) FindCurrentEntry(ctx context.Context, employeeId int) (*WorkEntry, error) {
	query := `SELECT id, employee_id, project, start_time
		FROM work_entries
		WHERE employee_id = ? AND end_time IS NULL
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, employeeId)

	var entry WorkEntry
	var startMillis int64
	err := row.Scan(&entry.Id, &entry.EmployeeId, &entry.Project, &startMillis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed when trying to find current work entry: %w", err)
	}
	entry.StartTime = time.UnixMilli(startMillis)
	return &entry, nil
}

func (r *RepositoryImpl) UpdateCurrentEntryStartTime(ctx context.Context, employeeId int, startTime time.Time) error {
	query := "UPDATE work_entries SET start_time = ? WHERE employee_id = ? AND end_time IS NULL"
	result, err := r.db.ExecContext(ctx, query, startTime.UnixMilli(), employeeId)
	if err != nil {
		return fmt.Errorf("could not update work entry start time: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNoCurrentEntry
	}
	return nil
}

func (r *RepositoryImpl) GetLastEntries(ctx context.Context, employeeId int, limit int) ([]WorkEntry, error) {
	query := `SELECT id, employee_id, project, start_time, end_time
		FROM work_entries
		WHERE employee_id = ? AND end_time IS NOT NULL
		ORDER BY start_time DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, employeeId, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query work entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *RepositoryImpl) GetEntriesBetween(ctx context.Context, employeeId int, from time.Time, to time.Time) ([]WorkEntry, error) {
	query := `SELECT id, employee_id, project, start_time, end_time
		FROM work_entries
		WHERE employee_id = ? AND end_time IS NOT NULL
			AND end_time > ? AND start_time < ?
		ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, employeeId, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("could not query work entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]WorkEntry, error) {
	var entries []WorkEntry
	for rows.Next() {
		var entry WorkEntry
		var startMillis int64
		var endMillis sql.NullInt64
		if err := rows.Scan(&entry.Id, &entry.EmployeeId, &entry.Project, &startMillis, &endMillis); err != nil {
			return nil, fmt.Errorf("could not scan work entry: %w", err)
		}
		entry.StartTime = time.UnixMilli(startMillis)
		if endMillis.Valid {
			entry.EndTime = time.UnixMilli(endMillis.Int64)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate work entries: %w", err)
	}
	return entries, nil
}
