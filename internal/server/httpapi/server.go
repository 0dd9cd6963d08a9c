// Package httpapi exposes the staffdesk data service over JSON/HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/service"
)

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmployeeService adds id-preserving inserts to service.EmployeeService.
type EmployeeService interface {
	service.EmployeeService
	Seed(ctx context.Context, e model.Employee) error
}

// Server wires services into HTTP handlers.
type Server struct {
	users     service.UserService
	tokens    service.TokenService
	employees EmployeeService
	health    Pinger
	log       *zap.Logger
}

// New constructs a Server. health may be nil.
func New(users service.UserService, tokens service.TokenService, employees EmployeeService, health Pinger, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{users: users, tokens: tokens, employees: employees, health: health, log: log}
}

// Router returns the HTTP handler with middleware installed.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Logging(s.log), Recover(s.log))

	r.Get("/health", s.handleHealth)

	r.Get("/users", s.handleListUsers)
	r.Post("/users", s.handleCreateUser)

	r.Get("/tokens", s.handleListTokens)
	r.Post("/tokens", s.handleCreateToken)
	r.Patch("/tokens/{id}", s.handlePatchToken)

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", s.handleListEmployees)
		r.Post("/", s.handleCreateEmployee)
		r.Get("/{id}", s.handleGetEmployee)
		r.Put("/{id}", s.handleReplaceEmployee)
		r.Delete("/{id}", s.handleDeleteEmployee)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Users ---

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.fail(w, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in model.User
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	out, err := s.users.Create(r.Context(), in)
	if err != nil {
		s.fail(w, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// --- Tokens ---

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.tokens.List(r.Context())
	if err != nil {
		s.fail(w, "list tokens", err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var in model.TokenRecord
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	out, err := s.tokens.Create(r.Context(), in)
	if err != nil {
		s.fail(w, "create token", err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handlePatchToken(w http.ResponseWriter, r *http.Request) {
	var in model.TokenPatch
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	out, err := s.tokens.Patch(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, "patch token", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Employees ---

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := s.employees.List(r.Context())
	if err != nil {
		s.fail(w, "list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := s.employees.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleCreateEmployee assigns an id unless the body carries one.
func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in model.Employee
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	if in.ID != "" {
		if err := s.employees.Seed(r.Context(), in); err != nil {
			s.fail(w, "create employee", err)
			return
		}
		writeJSON(w, http.StatusCreated, in)
		return
	}
	out, err := s.employees.Create(r.Context(), in.EmployeeFields)
	if err != nil {
		s.fail(w, "create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleReplaceEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in model.Employee
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}
	if in.ID != "" && in.ID != id {
		writeError(w, http.StatusBadRequest, "invalid_request", "body id does not match path")
		return
	}
	out, err := s.employees.Replace(r.Context(), id, in.EmployeeFields)
	if err != nil {
		s.fail(w, "replace employee", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := s.employees.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Debug(op, zap.Error(err))
	writeServiceError(w, err)
}
