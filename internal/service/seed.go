package service

import (
	"context"

	"github.com/and161185/staffdesk/internal/model"
)

// Seeder adapts the services to seed.Target.
type Seeder struct {
	Users     UserService
	Tokens    TokenService
	Employees *EmployeeServiceImpl
}

func (s Seeder) CreateUser(ctx context.Context, u model.User) error {
	_, err := s.Users.Create(ctx, u)
	return err
}

func (s Seeder) CreateToken(ctx context.Context, t model.TokenRecord) error {
	_, err := s.Tokens.Create(ctx, t)
	return err
}

func (s Seeder) CreateEmployee(ctx context.Context, e model.Employee) error {
	return s.Employees.Seed(ctx, e)
}
