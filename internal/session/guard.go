package session

import (
	"context"

	"github.com/and161185/staffdesk/internal/errs"
)

// Decision is the outcome of a guard activation.
type Decision int

const (
	// Allow lets the protected content run.
	Allow Decision = iota
	// RedirectLogin sends the user to the login entry point.
	RedirectLogin
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect_login"
}

// Guard revalidates the session on every entry into a protected view.
type Guard struct {
	store     *Store
	onPending func()
	onSettled func()
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// OnPending is called right before the revalidation round trip starts.
func OnPending(fn func()) GuardOption { return func(g *Guard) { g.onPending = fn } }

// OnSettled is called once the revalidation round trip has finished.
func OnSettled(fn func()) GuardOption { return func(g *Guard) { g.onSettled = fn } }

// NewGuard builds a guard over s.
func NewGuard(s *Store, opts ...GuardOption) *Guard {
	g := &Guard{store: s}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Enter always refreshes first, even when the local expiry is still in the future,
// then decides on the resulting session state.
func (g *Guard) Enter(ctx context.Context) Decision {
	if g.onPending != nil {
		g.onPending()
	}
	_, _ = g.store.Refresh(ctx)
	if g.onSettled != nil {
		g.onSettled()
	}
	if g.store.Snapshot().Authenticated {
		return Allow
	}
	return RedirectLogin
}

// Protect runs fn only when Enter allows it. On redirect it returns an error
// wrapping errs.ErrLoginRequired; the attempted destination is not kept.
func (g *Guard) Protect(ctx context.Context, fn func(context.Context) error) error {
	if g.Enter(ctx) == RedirectLogin {
		e := errs.New(errs.KindLoginRequired, "Guard", errs.ErrLoginRequired.Error(), errs.ErrLoginRequired)
		if last := g.store.Snapshot().LastError; last != e.Msg {
			e.Detail = last
		}
		return e
	}
	return fn(ctx)
}
