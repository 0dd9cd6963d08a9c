package service

import (
	"context"

	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/repository"
)

// TokenService stores session token records.
type TokenService interface {
	List(ctx context.Context) ([]model.TokenRecord, error)
	Create(ctx context.Context, t model.TokenRecord) (model.TokenRecord, error)
	Patch(ctx context.Context, id string, p model.TokenPatch) (model.TokenRecord, error)
}

type TokenServiceImpl struct {
	repo  repository.TokenRepository
	newID IDFunc
}

// NewTokenService constructs TokenService; newID defaults to NewUUID.
func NewTokenService(repo repository.TokenRepository, newID IDFunc) *TokenServiceImpl {
	if newID == nil {
		newID = NewUUID
	}
	return &TokenServiceImpl{repo: repo, newID: newID}
}

func (s *TokenServiceImpl) List(ctx context.Context) ([]model.TokenRecord, error) {
	return s.repo.List(ctx)
}

// Create validates and stores a token record.
// Rules:
// - token and userId not empty
// - expiresAt > 0
func (s *TokenServiceImpl) Create(ctx context.Context, t model.TokenRecord) (model.TokenRecord, error) {
	if t.Token == "" {
		return model.TokenRecord{}, validationf("empty token")
	}
	if t.UserID == "" {
		return model.TokenRecord{}, validationf("empty userId")
	}
	if t.ExpiresAt <= 0 {
		return model.TokenRecord{}, validationf("expiresAt must be positive")
	}
	id, err := assignID(s.newID, t.ID)
	if err != nil {
		return model.TokenRecord{}, err
	}
	t.ID = id
	if err := s.repo.Create(ctx, &t); err != nil {
		return model.TokenRecord{}, err
	}
	return t, nil
}

// Patch applies a partial update; at least one field must be present.
func (s *TokenServiceImpl) Patch(ctx context.Context, id string, p model.TokenPatch) (model.TokenRecord, error) {
	if id == "" {
		return model.TokenRecord{}, validationf("empty id")
	}
	if p.Token == nil && p.ExpiresAt == nil {
		return model.TokenRecord{}, validationf("nothing to update")
	}
	if p.Token != nil && *p.Token == "" {
		return model.TokenRecord{}, validationf("empty token")
	}
	if p.ExpiresAt != nil && *p.ExpiresAt <= 0 {
		return model.TokenRecord{}, validationf("expiresAt must be positive")
	}
	out, err := s.repo.Patch(ctx, id, p)
	if err != nil {
		return model.TokenRecord{}, err
	}
	return *out, nil
}
