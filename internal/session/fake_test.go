package session

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

// fakeBackend is an in-memory data service.
type fakeBackend struct {
	mu     sync.Mutex
	users  []model.User
	tokens []model.TokenRecord
	nextID int

	failUsers  bool
	failCreate bool
	failList   bool
	failPatch  bool

	patches int

	// gate, when set, blocks ListTokens until it is closed.
	gate chan struct{}
}

var _ Backend = (*fakeBackend)(nil)

func newFakeBackend(users ...model.User) *fakeBackend {
	return &fakeBackend{users: users}
}

func (f *fakeBackend) ListUsers(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUsers {
		return nil, errs.Network("ListUsers", "Failed to fetch users", nil)
	}
	return append([]model.User(nil), f.users...), nil
}

func (f *fakeBackend) ListTokens(ctx context.Context) ([]model.TokenRecord, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errs.Network("ListTokens", "Failed to fetch tokens", nil)
	}
	return append([]model.TokenRecord(nil), f.tokens...), nil
}

func (f *fakeBackend) CreateToken(_ context.Context, token, userID string, expiresAt int64) (model.TokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return model.TokenRecord{}, errs.Network("CreateToken", "Failed to save token", nil)
	}
	f.nextID++
	rec := model.TokenRecord{ID: "t" + strconv.Itoa(f.nextID), Token: token, UserID: userID, ExpiresAt: expiresAt}
	f.tokens = append(f.tokens, rec)
	return rec, nil
}

func (f *fakeBackend) PatchToken(_ context.Context, id, token string, expiresAt int64) (model.TokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPatch {
		return model.TokenRecord{}, errs.Network("PatchToken", "Failed to refresh token", nil)
	}
	for i := range f.tokens {
		if f.tokens[i].ID == id {
			f.tokens[i].Token = token
			f.tokens[i].ExpiresAt = expiresAt
			f.patches++
			return f.tokens[i], nil
		}
	}
	return model.TokenRecord{}, errs.Network("PatchToken", "Failed to refresh token", errs.ErrNotFound)
}

func (f *fakeBackend) put(rec model.TokenRecord) {
	f.mu.Lock()
	f.tokens = append(f.tokens, rec)
	f.mu.Unlock()
}

func (f *fakeBackend) find(token string) (model.TokenRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.tokens {
		if r.Token == token {
			return r, true
		}
	}
	return model.TokenRecord{}, false
}

// fixedClock is a settable clock.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// seqTokens returns tok1, tok2, ...
func seqTokens() func() string {
	var n atomic.Int64
	return func() string { return "tok" + strconv.FormatInt(n.Add(1), 10) }
}
