// Package employees caches the employee collection and mirrors every change to the data service.
package employees

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

// Fallback texts used when a failure carries no message.
const (
	FallbackFetch  = "Failed to fetch employees"
	FallbackAdd    = "Failed to add employee"
	FallbackUpdate = "Error Editing Employee!"
	FallbackDelete = "Failed to delete employee"
)

// Backend is the employee part of the data service. Calls carry no session credential.
type Backend interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, f model.EmployeeFields) (model.Employee, error)
	ReplaceEmployee(ctx context.Context, id string, f model.EmployeeFields) (model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// Store is the local employee collection. Safe for concurrent use.
// A FetchAll result is applied only if no other call was issued after it;
// mutations are applied by id whenever the server confirms them.
type Store struct {
	backend Backend
	log     *zap.Logger

	mu       sync.Mutex
	seq      uint64
	inflight int
	records  []model.Employee
	selected *model.Employee
	lastErr  string
	filter   string
}

// New builds an empty store.
func New(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, log: log}
}

// FetchAll replaces the collection with the server's, in server order.
func (s *Store) FetchAll(ctx context.Context) ([]model.Employee, error) {
	my := s.begin()
	list, err := s.backend.ListEmployees(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if my != s.seq {
		s.log.Debug("stale fetch discarded", zap.Uint64("seq", my), zap.Uint64("latest", s.seq))
		return cloneList(s.records), fmt.Errorf("FetchAll: %w", errs.ErrStale)
	}
	if err != nil {
		s.lastErr = errs.Message(err, FallbackFetch)
		return cloneList(s.records), err
	}
	s.records = cloneList(list)
	s.lastErr = ""
	return cloneList(s.records), nil
}

// Add creates a record; the server-assigned result is appended at the end.
func (s *Store) Add(ctx context.Context, f model.EmployeeFields) (model.Employee, error) {
	if err := f.Validate(); err != nil {
		return model.Employee{}, s.reject("Add", err)
	}
	s.begin()
	created, err := s.backend.CreateEmployee(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked()
	if err != nil {
		s.lastErr = errs.Message(err, FallbackAdd)
		return model.Employee{}, err
	}
	if indexOf(s.records, created.ID) < 0 {
		s.records = append(s.records, created)
	}
	s.lastErr = ""
	return created, nil
}

// Update fully replaces the fields of id and clears the selection.
func (s *Store) Update(ctx context.Context, id string, f model.EmployeeFields) (model.Employee, error) {
	if err := f.Validate(); err != nil {
		return model.Employee{}, s.reject("Update", err)
	}
	s.begin()
	updated, err := s.backend.ReplaceEmployee(ctx, id, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked()
	if err != nil {
		s.lastErr = errs.Message(err, FallbackUpdate)
		return model.Employee{}, err
	}
	if updated.ID == "" {
		updated = model.Employee{ID: id, EmployeeFields: f}
	}
	if i := indexOf(s.records, id); i >= 0 {
		s.records[i] = updated
	}
	s.selected = nil
	s.lastErr = ""
	return updated, nil
}

// Delete removes id once the server confirms it.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.begin()
	err := s.backend.DeleteEmployee(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleLocked()
	if err != nil {
		s.lastErr = errs.Message(err, FallbackDelete)
		return err
	}
	if i := indexOf(s.records, id); i >= 0 {
		s.records = append(s.records[:i], s.records[i+1:]...)
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.lastErr = ""
	return nil
}

// SetSelected sets or clears (nil) the record carried into the edit form.
func (s *Store) SetSelected(e *model.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e == nil {
		s.selected = nil
		return
	}
	cp := *e
	s.selected = &cp
}

// Select picks the cached record with id as the selection.
func (s *Store) Select(id string) (model.Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.records, id)
	if i < 0 {
		return model.Employee{}, false
	}
	cp := s.records[i]
	s.selected = &cp
	return cp, true
}

// SetSearchFilter sets the name filter used by Filtered.
func (s *Store) SetSearchFilter(q string) {
	s.mu.Lock()
	s.filter = q
	s.mu.Unlock()
}

// Filtered returns the records matching the current search filter.
func (s *Store) Filtered() []model.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Filter(s.records, s.filter)
}

// ClearError resets the last error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

// Snapshot returns a copy of the collection state.
func (s *Store) Snapshot() model.EmployeeCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := model.EmployeeCollection{
		Records:      cloneList(s.records),
		Loading:      s.inflight > 0,
		LastError:    s.lastErr,
		SearchFilter: s.filter,
	}
	if s.selected != nil {
		cp := *s.selected
		out.Selected = &cp
	}
	return out
}

// Filter is a case-insensitive substring match of q over "firstName lastName".
func Filter(records []model.Employee, q string) []model.Employee {
	q = strings.ToLower(q)
	out := make([]model.Employee, 0, len(records))
	for _, e := range records {
		if strings.Contains(strings.ToLower(e.FullName()), q) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inflight++
	return s.seq
}

func (s *Store) settleLocked() { s.inflight-- }

func (s *Store) reject(op string, err error) error {
	e := errs.New(errs.KindValidation, op, err.Error(), err)
	s.mu.Lock()
	s.lastErr = e.Msg
	s.mu.Unlock()
	return e
}

func indexOf(list []model.Employee, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneList(list []model.Employee) []model.Employee {
	if list == nil {
		return nil
	}
	return append([]model.Employee(nil), list...)
}
