package repository

import (
	"context"

	"github.com/and161185/staffdesk/internal/model"
)

// EmployeeRepository stores employee records.
type EmployeeRepository interface {
	// List returns all employees in insertion order.
	List(ctx context.Context) ([]model.Employee, error)
	// Get loads an employee by id.
	Get(ctx context.Context, id string) (*model.Employee, error)
	// Create inserts an employee with its id already assigned.
	Create(ctx context.Context, e *model.Employee) error
	// Replace overwrites every field of id, keeping its position.
	Replace(ctx context.Context, id string, f model.EmployeeFields) (*model.Employee, error)
	// Delete removes id.
	Delete(ctx context.Context, id string) error
}
