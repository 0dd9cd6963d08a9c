package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

func TestGuard_AllowsAfterRefresh(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "live")
	f.be.put(model.TokenRecord{ID: "t1", Token: "live", UserID: "u1", ExpiresAt: f.clock.Now().Add(time.Hour).UnixMilli()})

	var events []string
	g := NewGuard(f.store,
		OnPending(func() { events = append(events, "pending") }),
		OnSettled(func() { events = append(events, "settled") }),
	)

	require.Equal(t, Allow, g.Enter(context.Background()))
	require.Equal(t, []string{"pending", "settled"}, events)
}

func TestGuard_RefreshesOnEveryEntry(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	_, err := f.store.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)

	g := NewGuard(f.store)
	require.Equal(t, Allow, g.Enter(context.Background()))

	// Server-side wipe is noticed on the next entry even though the local expiry is fresh.
	f.be.mu.Lock()
	f.be.tokens = nil
	f.be.mu.Unlock()
	require.Equal(t, RedirectLogin, g.Enter(context.Background()))
}

func TestGuard_RedirectsWithoutToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	g := NewGuard(f.store)
	require.Equal(t, RedirectLogin, g.Enter(context.Background()))
}

func TestGuard_Protect(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	g := NewGuard(f.store)

	ran := false
	err := g.Protect(context.Background(), func(context.Context) error { ran = true; return nil })
	require.False(t, ran)
	require.True(t, errors.Is(err, errs.ErrLoginRequired))

	_, err = f.store.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	err = g.Protect(context.Background(), func(context.Context) error { ran = true; return nil })
	require.NoError(t, err)
	require.True(t, ran)
}

func TestGuard_ProtectCarriesExpiry(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "ghost")
	g := NewGuard(f.store)

	err := g.Protect(context.Background(), func(context.Context) error { return nil })
	require.True(t, errors.Is(err, errs.ErrLoginRequired))
	require.Equal(t, "Session expired. Please log in again.", errs.DetailOf(err))
}

func TestDecision_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "allow", Allow.String())
	require.Equal(t, "redirect_login", RedirectLogin.String())
}
