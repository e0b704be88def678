package test_utils

import (
	"context"

	"github.com/timedesk/timedesk/pkg/employee"
)

type TestEmployeeProvider struct{}

func (p TestEmployeeProvider) GetCurrentEmployee(ctx context.Context) (employee.Employee, error) {
	return employee.Employee{
		Id:          123,
		Uid:         "test-employee",
		DisplayName: "Test Employee",
		Email:       "test@example.com",
		Settings: employee.Settings{
			Timezone: "Europe/Warsaw",
		},
	}, nil
}
