package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/repository"
)

// EmployeeService is CRUD over employee records.
type EmployeeService interface {
	List(ctx context.Context) ([]model.Employee, error)
	Get(ctx context.Context, id string) (model.Employee, error)
	Create(ctx context.Context, f model.EmployeeFields) (model.Employee, error)
	Replace(ctx context.Context, id string, f model.EmployeeFields) (model.Employee, error)
	Delete(ctx context.Context, id string) error
}

type EmployeeServiceImpl struct {
	repo  repository.EmployeeRepository
	newID IDFunc
}

// NewEmployeeService constructs EmployeeService; newID defaults to NewUUID.
func NewEmployeeService(repo repository.EmployeeRepository, newID IDFunc) *EmployeeServiceImpl {
	if newID == nil {
		newID = NewUUID
	}
	return &EmployeeServiceImpl{repo: repo, newID: newID}
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]model.Employee, error) {
	return s.repo.List(ctx)
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (model.Employee, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Employee{}, err
	}
	return *e, nil
}

// Create validates the fields and stores the record under a fresh id.
func (s *EmployeeServiceImpl) Create(ctx context.Context, f model.EmployeeFields) (model.Employee, error) {
	if err := checkFields(f); err != nil {
		return model.Employee{}, err
	}
	id, err := s.newID()
	if err != nil {
		return model.Employee{}, err
	}
	e := model.Employee{ID: id, EmployeeFields: f}
	if err := s.repo.Create(ctx, &e); err != nil {
		return model.Employee{}, err
	}
	return e, nil
}

// Seed stores e under its own id, validating fields like Create.
func (s *EmployeeServiceImpl) Seed(ctx context.Context, e model.Employee) error {
	if err := checkFields(e.EmployeeFields); err != nil {
		return fmt.Errorf("employee %s: %w", e.ID, err)
	}
	id, err := assignID(s.newID, e.ID)
	if err != nil {
		return err
	}
	e.ID = id
	return s.repo.Create(ctx, &e)
}

// Replace overwrites every field of id.
func (s *EmployeeServiceImpl) Replace(ctx context.Context, id string, f model.EmployeeFields) (model.Employee, error) {
	if id == "" {
		return model.Employee{}, validationf("empty id")
	}
	if err := checkFields(f); err != nil {
		return model.Employee{}, err
	}
	e, err := s.repo.Replace(ctx, id, f)
	if err != nil {
		return model.Employee{}, err
	}
	return *e, nil
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validationf("empty id")
	}
	return s.repo.Delete(ctx, id)
}

func checkFields(f model.EmployeeFields) error {
	if err := f.Validate(); err != nil {
		if errors.Is(err, model.ErrInvalidField) {
			return fmt.Errorf("%w: %w", errs.ErrValidation, err)
		}
		return err
	}
	return nil
}
