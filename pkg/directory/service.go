package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyName = errors.New("contact name must not be empty")

type Service interface {
	CreateContact(ctx context.Context, contact Contact) (Contact, error)
	UpdateContact(ctx context.Context, contact Contact) (Contact, error)
	GetContact(ctx context.Context, id int) (Contact, error)
	ListContacts(ctx context.Context, query string) ([]Contact, error)
	DeleteContact(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateContact(ctx context.Context, contact Contact) (Contact, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return Contact{}, ErrEmptyName
	}
	created, err := s.repo.StoreContact(ctx, contact)
	if err != nil {
		return Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return created, nil
}

func (s *ServiceImpl) UpdateContact(ctx context.Context, contact Contact) (Contact, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return Contact{}, ErrEmptyName
	}
	updated, err := s.repo.UpdateContact(ctx, contact)
	if err != nil {
		return Contact{}, fmt.Errorf("failed to update contact %d: %w", contact.Id, err)
	}
	return updated, nil
}

func (s *ServiceImpl) GetContact(ctx context.Context, id int) (Contact, error) {
	return s.repo.GetContact(ctx, id)
}

// ListContacts returns all contacts, or the matching subset when query is
// not blank.
func (s *ServiceImpl) ListContacts(ctx context.Context, query string) ([]Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.GetAllContacts(ctx)
	}
	return s.repo.SearchContacts(ctx, query)
}

func (s *ServiceImpl) DeleteContact(ctx context.Context, id int) error {
	return s.repo.DeleteContact(ctx, id)
}
