package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadScheme(t *testing.T) {
	t.Parallel()
	_, err := New("ftp://example.com")
	require.Error(t, err)
}

func TestClient_ListUsers(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]model.User{{ID: "1", Email: "a@b.c", Password: "pw"}})
	}))

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "a@b.c", users[0].Email)
}

func TestClient_PatchToken_Body(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/tokens/t1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new", body["token"])
		assert.EqualValues(t, 42, body["expiresAt"])
		_, hasUser := body["userId"]
		assert.False(t, hasUser)
		_ = json.NewEncoder(w).Encode(model.TokenRecord{ID: "t1", Token: "new", UserID: "u", ExpiresAt: 42})
	}))

	rec, err := c.PatchToken(context.Background(), "t1", "new", 42)
	require.NoError(t, err)
	require.Equal(t, "u", rec.UserID)
}

func TestClient_Non2xxIsNetworkFailure(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"employee not found"}`)
	}))

	_, err := c.ReplaceEmployee(context.Background(), "nope", model.EmployeeFields{})
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindNetwork))
	require.True(t, errors.Is(err, errs.ErrNotFound))
	require.Equal(t, MsgUpdateEmployee, err.Error())
	require.Equal(t, "employee not found", errs.DetailOf(err))
}

func TestClient_DeleteIgnoresBody(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = io.WriteString(w, "not json at all")
	}))
	require.NoError(t, c.DeleteEmployee(context.Background(), "e1"))
}

func TestClient_TransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.ListEmployees(context.Background())
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindNetwork))
	require.Equal(t, MsgFetchEmployees, errs.Message(err, ""))
}

func TestClient_BadJSON(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[{")
	}))
	_, err := c.ListTokens(context.Background())
	require.Error(t, err)
	require.Equal(t, MsgFetchTokens, err.Error())
}
