package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrContactNotFound = errors.New("contact not found")

type Repository interface {
	StoreContact(ctx context.Context, contact Contact) (Contact, error)
	UpdateContact(ctx context.Context, contact Contact) (Contact, error)
	GetContact(ctx context.Context, id int) (Contact, error)
	GetAllContacts(ctx context.Context) ([]Contact, error)
	// SearchContacts matches the query as a case-insensitive substring of
	// the name or company.
	SearchContacts(ctx context.Context, query string) ([]Contact, error)
	DeleteContact(ctx context.Context, id int) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreContact(ctx context.Context, contact Contact) (Contact, error) {
	query := "INSERT INTO directory_contacts (name, company, phone, email, notes) VALUES (?, ?, ?, ?, ?)"
	result, err := r.db.ExecContext(ctx, query, contact.Name, contact.Company, contact.Phone, contact.Email, contact.Notes)
	if err != nil {
		return Contact{}, fmt.Errorf("could not store contact: %w", err)
	}
	lastInsertId, err := result.LastInsertId()
	if err != nil {
		return Contact{}, fmt.Errorf("could not retrieve last insert id: %w", err)
	}
	contact.Id = int(lastInsertId)
	return contact, nil
}

func (r *RepositoryImpl) UpdateContact(ctx context.Context, contact Contact) (Contact, error) {
	query := "UPDATE directory_contacts SET name = ?, company = ?, phone = ?, email = ?, notes = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, contact.Name, contact.Company, contact.Phone, contact.Email, contact.Notes, contact.Id)
	if err != nil {
		return Contact{}, fmt.Errorf("could not update contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Contact{}, fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return Contact{}, ErrContactNotFound
	}
	return contact, nil
}

func (r *RepositoryImpl) GetContact(ctx context.Context, id int) (Contact, error) {
	query := "SELECT id, name, company, phone, email, notes FROM directory_contacts WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)

	var contact Contact
	err := row.Scan(&contact.Id, &contact.Name, &contact.Company, &contact.Phone, &contact.Email, &contact.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrContactNotFound
		}
		return Contact{}, fmt.Errorf("could not query contact: %w", err)
	}
	return contact, nil
}

func (r *RepositoryImpl) GetAllContacts(ctx context.Context) ([]Contact, error) {
	query := "SELECT id, name, company, phone, email, notes FROM directory_contacts ORDER BY name"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query contacts: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (r *RepositoryImpl) SearchContacts(ctx context.Context, query string) ([]Contact, error) {
	sqlQuery := `SELECT id, name, company, phone, email, notes
		FROM directory_contacts
		WHERE LOWER(name) LIKE ? OR LOWER(company) LIKE ?
		ORDER BY name`
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.db.QueryContext(ctx, sqlQuery, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("could not search contacts: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (r *RepositoryImpl) DeleteContact(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM directory_contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func scanContacts(rows *sql.Rows) ([]Contact, error) {
	var contacts []Contact
	for rows.Next() {
		var contact Contact
		if err := rows.Scan(&contact.Id, &contact.Name, &contact.Company, &contact.Phone, &contact.Email, &contact.Notes); err != nil {
			return nil, fmt.Errorf("could not scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate contacts: %w", err)
	}
	return contacts, nil
}
