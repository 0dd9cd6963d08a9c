package service

import (
	"context"
	"strings"

	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/repository"
)

// UserService lists and registers accounts.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
}

type UserServiceImpl struct {
	repo  repository.UserRepository
	newID IDFunc
}

// NewUserService constructs UserService; newID defaults to NewUUID.
func NewUserService(repo repository.UserRepository, newID IDFunc) *UserServiceImpl {
	if newID == nil {
		newID = NewUUID
	}
	return &UserServiceImpl{repo: repo, newID: newID}
}

func (s *UserServiceImpl) List(ctx context.Context) ([]model.User, error) { return s.repo.List(ctx) }

// Create validates and stores a user. Passwords are kept as given.
func (s *UserServiceImpl) Create(ctx context.Context, u model.User) (model.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" || u.Password == "" {
		return model.User{}, validationf("email and password are required")
	}
	if !strings.Contains(u.Email, "@") {
		return model.User{}, validationf("email %q is malformed", u.Email)
	}
	id, err := assignID(s.newID, u.ID)
	if err != nil {
		return model.User{}, err
	}
	u.ID = id
	if err := s.repo.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}
