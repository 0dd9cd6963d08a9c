package repository

import (
	"context"

	"github.com/and161185/staffdesk/internal/model"
)

// TokenRepository stores issued session tokens.
type TokenRepository interface {
	// List returns all token records in insertion order.
	List(ctx context.Context) ([]model.TokenRecord, error)
	// Get loads a record by id.
	Get(ctx context.Context, id string) (*model.TokenRecord, error)
	// Create inserts a record.
	Create(ctx context.Context, t *model.TokenRecord) error
	// Patch updates the non-nil fields of p and returns the resulting record.
	Patch(ctx context.Context, id string, p model.TokenPatch) (*model.TokenRecord, error)
}
