package postgres

import (
	"context"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/repository"
)

// EmployeeRepo implements EmployeeRepository using PostgreSQL.
type EmployeeRepo struct{ db *DB }

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// NewEmployeeRepo constructs an employee repository.
func NewEmployeeRepo(db *DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

const employeeCols = `id, first_name, last_name, age, gender, role, years_of_experience, salary, address`

type scanner interface{ Scan(dest ...any) error }

func scanEmployee(s scanner, e *model.Employee) error {
	return s.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Age, &e.Gender, &e.Role, &e.YearsOfExperience, &e.Salary, &e.Address)
}

// List selects every employee in insertion order.
func (r *EmployeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+employeeCols+` FROM employees ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Employee, 0)
	for rows.Next() {
		var e model.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get selects an employee by id.
func (r *EmployeeRepo) Get(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	if err := scanEmployee(r.db.Pool.QueryRow(ctx, `SELECT `+employeeCols+` FROM employees WHERE id=$1`, id), &e); err != nil {
		return nil, mapRowErr(err)
	}
	return &e, nil
}

// Create inserts an employee.
func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) error {
	const q = `
INSERT INTO employees (id, first_name, last_name, age, gender, role, years_of_experience, salary, address)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Pool.Exec(ctx, q, e.ID, e.FirstName, e.LastName, e.Age, e.Gender, e.Role, e.YearsOfExperience, e.Salary, e.Address)
	return mapWriteErr(err)
}

// Replace overwrites all fields; seq is untouched so the row keeps its position.
func (r *EmployeeRepo) Replace(ctx context.Context, id string, f model.EmployeeFields) (*model.Employee, error) {
	const q = `
UPDATE employees
SET first_name=$2, last_name=$3, age=$4, gender=$5, role=$6, years_of_experience=$7, salary=$8, address=$9
WHERE id=$1
RETURNING ` + employeeCols
	var e model.Employee
	row := r.db.Pool.QueryRow(ctx, q, id, f.FirstName, f.LastName, f.Age, f.Gender, f.Role, f.YearsOfExperience, f.Salary, f.Address)
	if err := scanEmployee(row, &e); err != nil {
		if werr := mapWriteErr(err); werr != err {
			return nil, werr
		}
		return nil, mapRowErr(err)
	}
	return &e, nil
}

// Delete removes an employee.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
