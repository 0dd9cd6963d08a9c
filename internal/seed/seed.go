// Package seed loads a db.json style fixture ({users, tokens, employees})
// into the data service.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

// File is the fixture document.
type File struct {
	Users     []model.User        `json:"users"`
	Tokens    []model.TokenRecord `json:"tokens"`
	Employees []model.Employee    `json:"employees"`
}

// Target receives seeded records. Records keep their ids.
type Target interface {
	CreateUser(ctx context.Context, u model.User) error
	CreateToken(ctx context.Context, t model.TokenRecord) error
	CreateEmployee(ctx context.Context, e model.Employee) error
}

// Stats counts what Apply did.
type Stats struct {
	Inserted int
	Skipped  int
}

// Parse decodes a fixture.
func Parse(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &f, nil
}

// LoadFile opens and parses path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh)
}

// Apply inserts every record of f. Records whose id already exists are skipped,
// so applying the same fixture twice is a no-op.
func Apply(ctx context.Context, t Target, f *File, log *zap.Logger) (Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var st Stats
	insert := func(kind, id string, err error) error {
		switch {
		case err == nil:
			st.Inserted++
			return nil
		case errors.Is(err, errs.ErrAlreadyExists):
			st.Skipped++
			log.Debug("seed: skip existing", zap.String("kind", kind), zap.String("id", id))
			return nil
		default:
			return fmt.Errorf("seed %s %s: %w", kind, id, err)
		}
	}

	for _, u := range f.Users {
		if err := insert("user", u.ID, t.CreateUser(ctx, u)); err != nil {
			return st, err
		}
	}
	for _, tk := range f.Tokens {
		if err := insert("token", tk.ID, t.CreateToken(ctx, tk)); err != nil {
			return st, err
		}
	}
	for _, e := range f.Employees {
		if err := insert("employee", e.ID, t.CreateEmployee(ctx, e)); err != nil {
			return st, err
		}
	}
	log.Info("seed applied", zap.Int("inserted", st.Inserted), zap.Int("skipped", st.Skipped))
	return st, nil
}
