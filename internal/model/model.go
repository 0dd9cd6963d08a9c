// Package model defines domain entities shared by the client stores and the data service.
package model

import "time"

// User is an account known to the data service. Password is stored and compared in clear text.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// TokenRecord is the server-side copy of an issued session token.
type TokenRecord struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresAt int64  `json:"expiresAt"` // unix epoch milliseconds
}

// Expired reports whether the record's expiry lies strictly before now.
func (r TokenRecord) Expired(now time.Time) bool {
	return r.ExpiresAt < now.UnixMilli()
}

// Expiry returns ExpiresAt as a time.
func (r TokenRecord) Expiry() time.Time { return time.UnixMilli(r.ExpiresAt) }

// TokenPatch is a partial update of a token record; nil fields are left untouched.
type TokenPatch struct {
	Token     *string `json:"token,omitempty"`
	ExpiresAt *int64  `json:"expiresAt,omitempty"`
}

// Employee is a single staff record. ID is assigned by the data service.
type Employee struct {
	ID string `json:"id"`
	EmployeeFields
}

// FullName is the text the search filter matches against.
func (e Employee) FullName() string { return e.FirstName + " " + e.LastName }

// EmployeeFields is an employee record without its identity.
type EmployeeFields struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	Role              string `json:"role"`
	YearsOfExperience int    `json:"yearsOfExperience"`
	Salary            int64  `json:"salary"`
	Address           string `json:"address"`
}

// Session is a read-only view of the session state.
type Session struct {
	UserID        string
	Email         string
	Token         string
	ExpiresAt     time.Time
	Authenticated bool
	Loading       bool
	LastError     string
	Status        SessionStatus
}

// SessionStatus is the state of the session lifecycle.
type SessionStatus int

const (
	StatusAnonymous SessionStatus = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusError
)

func (s SessionStatus) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusError:
		return "error"
	default:
		return "anonymous"
	}
}

// EmployeeCollection is a read-only view of the employee cache.
type EmployeeCollection struct {
	Records      []Employee
	Selected     *Employee
	Loading      bool
	LastError    string
	SearchFilter string
}
