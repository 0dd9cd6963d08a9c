// Package session owns the login/refresh/logout lifecycle of the opaque session token
// and the guard that revalidates it before protected views.
package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/tokenstore"
)

// DefaultTTL is the lifetime of a freshly minted token.
const DefaultTTL = 20 * time.Minute

// Fallback texts used when a failure carries no message.
const (
	FallbackLogin   = "Login failed"
	FallbackRefresh = "Session expired. Please log in again."
)

// Backend is the part of the data service the session needs.
type Backend interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListTokens(ctx context.Context) ([]model.TokenRecord, error)
	CreateToken(ctx context.Context, token, userID string, expiresAt int64) (model.TokenRecord, error)
	PatchToken(ctx context.Context, id, token string, expiresAt int64) (model.TokenRecord, error)
}

// Store is the session state. All methods are safe for concurrent use.
// Network calls run outside the lock; a Login or Refresh result is applied
// only when no later Login, Refresh or Logout was issued in the meantime.
type Store struct {
	backend Backend
	tokens  tokenstore.Store
	log     *zap.Logger
	now     func() time.Time
	mint    func() string
	ttl     time.Duration

	mu       sync.Mutex
	seq      uint64
	inflight int
	st       state
}

type state struct {
	userID        string
	email         string
	token         string
	expiresAt     time.Time
	authenticated bool
	lastError     string
	status        model.SessionStatus
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithTokenGenerator overrides the opaque token generator.
func WithTokenGenerator(gen func() string) Option { return func(s *Store) { s.mint = gen } }

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds a Store and loads the persisted token. The session stays
// unauthenticated until the first successful Refresh or Login.
func New(backend Backend, tokens tokenstore.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		tokens:  tokens,
		log:     zap.NewNop(),
		now:     time.Now,
		mint:    RandomToken,
		ttl:     DefaultTTL,
	}
	for _, o := range opts {
		o(s)
	}
	tok, err := tokens.Load()
	if err != nil {
		s.log.Warn("load persisted token", zap.Error(err))
	}
	s.st.token = tok
	return s
}

// RandomToken returns a short pseudo-random base36 string. It is not a secure credential.
func RandomToken() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}

// Login validates the credential pair against the user list and issues a new token.
func (s *Store) Login(ctx context.Context, email, password string) (model.Session, error) {
	my := s.begin()

	user, err := s.findUser(ctx, email, password)
	if err != nil {
		return s.fail(my, "Login", err, FallbackLogin, false)
	}

	token := s.newToken("")
	exp := s.now().Add(s.ttl)
	rec, err := s.backend.CreateToken(ctx, token, user.ID, exp.UnixMilli())
	if err != nil {
		return s.fail(my, "Login", err, FallbackLogin, false)
	}
	if rec.Token == "" {
		rec.Token = token
	}
	if rec.ExpiresAt == 0 {
		rec.ExpiresAt = exp.UnixMilli()
	}

	return s.succeed(my, "Login", func(st *state) {
		st.userID = user.ID
		st.email = user.Email
		st.token = rec.Token
		st.expiresAt = rec.Expiry()
	})
}

func (s *Store) findUser(ctx context.Context, email, password string) (model.User, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return model.User{}, errs.New(errs.KindValidation, "Login", errs.ErrInvalidCredentials.Error(), errs.ErrInvalidCredentials)
}

// Refresh revalidates the local token against the server. An expired record is
// rotated to a new token and expiry; a live one is adopted unchanged.
func (s *Store) Refresh(ctx context.Context) (model.Session, error) {
	s.mu.Lock()
	s.seq++
	my := s.seq
	local := s.st.token
	if local == "" {
		err := errs.New(errs.KindLoginRequired, "Refresh", errs.ErrLoginRequired.Error(), errs.ErrLoginRequired)
		s.st.authenticated = false
		s.st.status = model.StatusError
		s.st.lastError = err.Error()
		out := s.snapshotLocked()
		s.mu.Unlock()
		return out, err
	}
	s.inflight++
	s.st.status = model.StatusAuthenticating
	s.mu.Unlock()

	rec, err := s.revalidate(ctx, local)
	if err != nil {
		return s.fail(my, "Refresh", err, FallbackRefresh, true)
	}

	return s.succeed(my, "Refresh", func(st *state) {
		if st.userID != rec.UserID {
			st.email = ""
		}
		st.userID = rec.UserID
		st.token = rec.Token
		st.expiresAt = rec.Expiry()
	})
}

func (s *Store) revalidate(ctx context.Context, local string) (model.TokenRecord, error) {
	records, err := s.backend.ListTokens(ctx)
	if err != nil {
		return model.TokenRecord{}, err
	}
	var (
		rec   model.TokenRecord
		found bool
	)
	for _, r := range records {
		if r.Token == local {
			rec, found = r, true
			break
		}
	}
	if !found {
		return rec, errs.New(errs.KindSessionExpired, "Refresh", errs.ErrSessionExpired.Error(), errs.ErrSessionExpired)
	}
	now := s.now()
	if !rec.Expired(now) {
		return rec, nil
	}

	token := s.newToken(rec.Token)
	exp := now.Add(s.ttl).UnixMilli()
	updated, err := s.backend.PatchToken(ctx, rec.ID, token, exp)
	if err != nil {
		return rec, err
	}
	s.log.Debug("token rotated", zap.String("record", rec.ID))
	rec.Token, rec.ExpiresAt = token, exp
	if updated.UserID != "" {
		rec.UserID = updated.UserID
	}
	return rec, nil
}

// Logout drops the session locally and on disk. Any Login or Refresh still
// in flight is discarded when it completes.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.st.userID = ""
	s.st.email = ""
	s.st.token = ""
	s.st.expiresAt = time.Time{}
	s.st.authenticated = false
	s.st.status = model.StatusAnonymous
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("clear persisted token", zap.Error(err))
	}
}

// ClearError resets the last error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.st.lastError = ""
	if s.st.status == model.StatusError {
		s.st.status = model.StatusAnonymous
	}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.Session {
	return model.Session{
		UserID:        s.st.userID,
		Email:         s.st.email,
		Token:         s.st.token,
		ExpiresAt:     s.st.expiresAt,
		Authenticated: s.st.authenticated,
		Loading:       s.inflight > 0,
		LastError:     s.st.lastError,
		Status:        s.st.status,
	}
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inflight++
	s.st.status = model.StatusAuthenticating
	return s.seq
}

// settle ends an in-flight call and reports whether its result may be applied.
func (s *Store) settle(my uint64) bool {
	s.inflight--
	return my == s.seq
}

func (s *Store) succeed(my uint64, op string, apply func(*state)) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(my) {
		s.log.Debug("stale response discarded", zap.String("op", op))
		return s.snapshotLocked(), fmt.Errorf("%s: %w", op, errs.ErrStale)
	}
	apply(&s.st)
	s.st.authenticated = true
	s.st.status = model.StatusAuthenticated
	s.st.lastError = ""
	if err := s.tokens.Save(s.st.token); err != nil {
		s.log.Warn("persist token", zap.Error(err))
	}
	return s.snapshotLocked(), nil
}

func (s *Store) fail(my uint64, op string, err error, fallback string, dropToken bool) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(my) {
		s.log.Debug("stale failure discarded", zap.String("op", op), zap.Error(err))
		return s.snapshotLocked(), fmt.Errorf("%s: %w", op, errs.ErrStale)
	}
	s.st.authenticated = false
	s.st.status = model.StatusError
	s.st.lastError = errs.Message(err, fallback)
	if dropToken {
		s.st.token = ""
		s.st.expiresAt = time.Time{}
		if cerr := s.tokens.Clear(); cerr != nil {
			s.log.Warn("clear persisted token", zap.Error(cerr))
		}
	}
	s.log.Debug("session op failed", zap.String("op", op), zap.Error(err))
	return s.snapshotLocked(), err
}

// mintAttempts bounds how often a custom generator is retried before
// RandomToken takes over.
const mintAttempts = 8

// newToken mints a token that differs from prev and is never empty.
func (s *Store) newToken(prev string) string {
	for range mintAttempts {
		if t := s.mint(); t != "" && t != prev {
			return t
		}
	}
	s.log.Warn("token generator returned unusable tokens, using RandomToken")
	for {
		if t := RandomToken(); t != "" && t != prev {
			return t
		}
	}
}
