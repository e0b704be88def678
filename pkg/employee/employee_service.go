package employee

import (
	"context"
	"fmt"
)

type Service interface {
	GetCurrentEmployee(ctx context.Context) (Employee, error)
	GetEmployeeByUid(ctx context.Context, uid string) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) (Employee, error)
	GetAllEmployees(ctx context.Context) ([]Employee, error)
}

// Provider is the minimal read-only view other packages depend on.
type Provider interface {
	GetCurrentEmployee(ctx context.Context) (Employee, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetCurrentEmployee(ctx context.Context) (Employee, error) {
	employeeId, err := CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.repo.GetEmployee(ctx, employeeId)
}

func (s *ServiceImpl) GetEmployeeByUid(ctx context.Context, uid string) (Employee, error) {
	return s.repo.GetEmployeeByUid(ctx, uid)
}

func (s *ServiceImpl) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	id, err := s.repo.CreateEmployee(ctx, e)
	if err != nil {
		return Employee{}, err
	}
	e.Id = id
	return e, nil
}

func (s *ServiceImpl) UpdateEmployee(ctx context.Context, e Employee) (Employee, error) {
	employeeId, err := CurrentId(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.repo.UpdateEmployee(ctx, employeeId, e)
}

func (s *ServiceImpl) GetAllEmployees(ctx context.Context) ([]Employee, error) {
	return s.repo.GetAllEmployees(ctx)
}
