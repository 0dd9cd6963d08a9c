// Package remote is the HTTP client of the staffdesk data service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/staffdesk/internal/errs"
	"github.com/and161185/staffdesk/internal/model"
)

// Failure texts reported to the user, one per remote operation.
const (
	MsgFetchUsers     = "Failed to fetch users"
	MsgFetchTokens    = "Failed to fetch tokens"
	MsgSaveToken      = "Failed to save token"
	MsgRefreshToken   = "Failed to refresh token"
	MsgFetchEmployees = "Failed to fetch employees"
	MsgAddEmployee    = "Failed to add employee"
	MsgUpdateEmployee = "Failed to update employee"
	MsgDeleteEmployee = "Failed to delete employee"
)

// Client talks JSON to the data service. It never retries.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{}, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := c.do(ctx, "ListUsers", http.MethodGet, "/users", nil, &out, MsgFetchUsers)
	return out, err
}

func (c *Client) ListTokens(ctx context.Context) ([]model.TokenRecord, error) {
	var out []model.TokenRecord
	err := c.do(ctx, "ListTokens", http.MethodGet, "/tokens", nil, &out, MsgFetchTokens)
	return out, err
}

type newToken struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CreateToken stores a new token record and returns it with its server id.
func (c *Client) CreateToken(ctx context.Context, token, userID string, expiresAt int64) (model.TokenRecord, error) {
	var out model.TokenRecord
	in := newToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	err := c.do(ctx, "CreateToken", http.MethodPost, "/tokens", in, &out, MsgSaveToken)
	return out, err
}

// PatchToken overwrites token and expiry of an existing record.
func (c *Client) PatchToken(ctx context.Context, id, token string, expiresAt int64) (model.TokenRecord, error) {
	var out model.TokenRecord
	in := model.TokenPatch{Token: &token, ExpiresAt: &expiresAt}
	err := c.do(ctx, "PatchToken", http.MethodPatch, "/tokens/"+url.PathEscape(id), in, &out, MsgRefreshToken)
	return out, err
}

func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	err := c.do(ctx, "ListEmployees", http.MethodGet, "/employees", nil, &out, MsgFetchEmployees)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, f model.EmployeeFields) (model.Employee, error) {
	var out model.Employee
	err := c.do(ctx, "CreateEmployee", http.MethodPost, "/employees", f, &out, MsgAddEmployee)
	return out, err
}

// ReplaceEmployee is a full replace of the record's fields.
func (c *Client) ReplaceEmployee(ctx context.Context, id string, f model.EmployeeFields) (model.Employee, error) {
	var out model.Employee
	err := c.do(ctx, "ReplaceEmployee", http.MethodPut, "/employees/"+url.PathEscape(id), f, &out, MsgUpdateEmployee)
	return out, err
}

// DeleteEmployee removes a record; any 2xx counts, the body is ignored.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, "DeleteEmployee", http.MethodDelete, "/employees/"+url.PathEscape(id), nil, nil, MsgDeleteEmployee)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any, failMsg string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errs.Network(op, failMsg, fmt.Errorf("encode body: %w", err))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return errs.Network(op, failMsg, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("dur", time.Since(start)),
			zap.Error(err),
		)
		return errs.Network(op, failMsg, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := errs.Network(op, failMsg, statusError(resp.StatusCode))
		e.Detail = readDetail(resp.Body)
		return e
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Network(op, failMsg, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// StatusError is the cause of a non-2xx response.
type StatusError struct{ Code int }

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Is lets a 404 match errs.ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == errs.ErrNotFound && e.Code == http.StatusNotFound
}

func statusError(code int) error { return &StatusError{Code: code} }

func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(b) == 0 {
		return ""
	}
	var eb errorBody
	if json.Unmarshal(b, &eb) == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
		return ""
	}
	return strings.TrimSpace(string(b))
}
