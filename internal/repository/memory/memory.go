// Package memory implements the repository interfaces in process memory.
// Records keep insertion order, matching the postgres backend.
package memory

import (
	"context"
	"sync"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/repository"
)

// ordered is an insertion-ordered set of records keyed by id.
type ordered[T any] struct {
	mu    sync.RWMutex
	items []T
	index map[string]int
	id    func(T) string
}

func newOrdered[T any](id func(T) string) *ordered[T] {
	return &ordered[T]{index: map[string]int{}, id: id}
}

func (o *ordered[T]) list() []T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append(make([]T, 0, len(o.items)), o.items...)
}

func (o *ordered[T]) get(id string) (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	i, ok := o.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return o.items[i], true
}

// insert appends v unless its id is taken or unique rejects it.
func (o *ordered[T]) insert(v T, unique func(existing T) bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.index[o.id(v)]; ok {
		return errs.ErrAlreadyExists
	}
	if unique != nil {
		for _, cur := range o.items {
			if unique(cur) {
				return errs.ErrAlreadyExists
			}
		}
	}
	o.index[o.id(v)] = len(o.items)
	o.items = append(o.items, v)
	return nil
}

// update applies fn to the record with id in place. The result is rejected
// when conflict reports true for any other record.
func (o *ordered[T]) update(id string, fn func(*T), conflict func(updated, other T) bool) (T, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var zero T
	i, ok := o.index[id]
	if !ok {
		return zero, errs.ErrNotFound
	}
	v := o.items[i]
	fn(&v)
	if conflict != nil {
		for j, cur := range o.items {
			if j != i && conflict(v, cur) {
				return zero, errs.ErrAlreadyExists
			}
		}
	}
	o.items[i] = v
	return v, nil
}

func (o *ordered[T]) remove(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	i, ok := o.index[id]
	if !ok {
		return errs.ErrNotFound
	}
	o.items = append(o.items[:i], o.items[i+1:]...)
	delete(o.index, id)
	for j := i; j < len(o.items); j++ {
		o.index[o.id(o.items[j])] = j
	}
	return nil
}

// UserRepo is an in-memory UserRepository.
type UserRepo struct{ set *ordered[model.User] }

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo returns an empty user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{set: newOrdered(func(u model.User) string { return u.ID })}
}

func (r *UserRepo) List(context.Context) ([]model.User, error) { return r.set.list(), nil }

func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	return r.set.insert(*u, func(cur model.User) bool { return cur.Email == u.Email })
}

// TokenRepo is an in-memory TokenRepository.
type TokenRepo struct{ set *ordered[model.TokenRecord] }

var _ repository.TokenRepository = (*TokenRepo)(nil)

// NewTokenRepo returns an empty token repository.
func NewTokenRepo() *TokenRepo {
	return &TokenRepo{set: newOrdered(func(t model.TokenRecord) string { return t.ID })}
}

func (r *TokenRepo) List(context.Context) ([]model.TokenRecord, error) { return r.set.list(), nil }

func (r *TokenRepo) Get(_ context.Context, id string) (*model.TokenRecord, error) {
	t, ok := r.set.get(id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

func (r *TokenRepo) Create(_ context.Context, t *model.TokenRecord) error {
	return r.set.insert(*t, func(cur model.TokenRecord) bool { return cur.Token == t.Token })
}

func (r *TokenRepo) Patch(_ context.Context, id string, p model.TokenPatch) (*model.TokenRecord, error) {
	t, err := r.set.update(id, func(t *model.TokenRecord) {
		if p.Token != nil {
			t.Token = *p.Token
		}
		if p.ExpiresAt != nil {
			t.ExpiresAt = *p.ExpiresAt
		}
	}, func(updated, other model.TokenRecord) bool { return updated.Token == other.Token })
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EmployeeRepo is an in-memory EmployeeRepository.
type EmployeeRepo struct{ set *ordered[model.Employee] }

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// NewEmployeeRepo returns an empty employee repository.
func NewEmployeeRepo() *EmployeeRepo {
	return &EmployeeRepo{set: newOrdered(func(e model.Employee) string { return e.ID })}
}

func (r *EmployeeRepo) List(context.Context) ([]model.Employee, error) { return r.set.list(), nil }

func (r *EmployeeRepo) Get(_ context.Context, id string) (*model.Employee, error) {
	e, ok := r.set.get(id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &e, nil
}

func (r *EmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	return r.set.insert(*e, nil)
}

func (r *EmployeeRepo) Replace(_ context.Context, id string, f model.EmployeeFields) (*model.Employee, error) {
	e, err := r.set.update(id, func(e *model.Employee) { e.EmployeeFields = f }, nil)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) Delete(_ context.Context, id string) error { return r.set.remove(id) }
