// Package app wires the client state: remote client, token persistence, session,
// guard and employee cache.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/staffdesk/internal/employees"
	"github.com/and161185/staffdesk/internal/remote"
	"github.com/and161185/staffdesk/internal/session"
	"github.com/and161185/staffdesk/internal/tokenstore"
)

// Options configure New.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	SessionTTL time.Duration
	Tokens     tokenstore.Store
	Logger     *zap.Logger

	// Guard hooks, typically a spinner.
	OnPending func()
	OnSettled func()
}

// App is the application state. It is created once per process.
type App struct {
	Remote    *remote.Client
	Tokens    tokenstore.Store
	Session   *session.Store
	Guard     *session.Guard
	Employees *employees.Store
	Log       *zap.Logger
}

// New builds the application state.
func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = tokenstore.NewFile("")
	}

	rc, err := remote.New(opts.BaseURL,
		remote.WithTimeout(opts.Timeout),
		remote.WithLogger(log.Named("remote")),
	)
	if err != nil {
		return nil, fmt.Errorf("remote client: %w", err)
	}

	sess := session.New(rc, tokens,
		session.WithTTL(opts.SessionTTL),
		session.WithLogger(log.Named("session")),
	)
	guard := session.NewGuard(sess,
		session.OnPending(opts.OnPending),
		session.OnSettled(opts.OnSettled),
	)

	return &App{
		Remote:    rc,
		Tokens:    tokens,
		Session:   sess,
		Guard:     guard,
		Employees: employees.New(rc, log.Named("employees")),
		Log:       log,
	}, nil
}

// Close flushes the logger.
func (a *App) Close() error {
	_ = a.Log.Sync()
	return nil
}
