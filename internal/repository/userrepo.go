// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/staffdesk/internal/model"
)

// UserRepository stores accounts.
type UserRepository interface {
	// List returns all users in insertion order.
	List(ctx context.Context) ([]model.User, error)
	// Create inserts a new user; a taken id or email yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
}
