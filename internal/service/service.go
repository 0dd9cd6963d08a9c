// Package service contains the data service's application services for users, tokens and employees.
package service

import (
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/staffdesk/internal/errs"
)

// IDFunc assigns ids to new records.
type IDFunc func() (string, error)

// NewUUID returns a random UUIDv4 string.
func NewUUID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errs.ErrValidation}, args...)...)
}

// assignID fills id when the caller left it empty.
func assignID(newID IDFunc, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	return newID()
}
