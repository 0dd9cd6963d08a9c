package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/output"
	"github.com/and161185/staffdesk/internal/repository/memory"
	"github.com/and161185/staffdesk/internal/server/httpapi"
	"github.com/and161185/staffdesk/internal/service"
)

// withTmpConfig isolates config lookup and token state from the developer's machine.
func withTmpConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_STATE_HOME", dir+"/state")
	t.Setenv("NO_COLOR", "1")
	t.Chdir(dir)
}

type backend struct {
	url       string
	employees *memory.EmployeeRepo
}

func newBackend(t *testing.T) backend {
	t.Helper()
	users := memory.NewUserRepo()
	require.NoError(t, users.Create(context.Background(), &model.User{ID: "u1", Email: "admin@corp.io", Password: "secret"}))
	emp := memory.NewEmployeeRepo()
	s := httpapi.New(
		service.NewUserService(users, nil),
		service.NewTokenService(memory.NewTokenRepo(), nil),
		service.NewEmployeeService(emp, nil),
		nil, zaptest.NewLogger(t),
	)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return backend{url: srv.URL, employees: emp}
}

type result struct {
	code        int
	out, errOut string
}

func runSD(t *testing.T, b backend, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--api", b.url, "--color", "never"}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, out: out.String(), errOut: errOut.String()}
}

func login(t *testing.T, b backend) {
	t.Helper()
	r := runSD(t, b, "", "login", "-e", "admin@corp.io", "-p", "secret")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	require.Contains(t, r.out, "Logged in as admin@corp.io")
}

func addAda(t *testing.T, b backend) model.Employee {
	t.Helper()
	r := runSD(t, b, "", "add", "--first-name", "Ada", "--last-name", "Lovelace", "--age", "36",
		"--gender", "Female", "--salary", "120000", "--role", "Engineer", "--experience", "10", "--address", "London")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	list, err := b.employees.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[len(list)-1]
}

func TestRootHelp(t *testing.T) {
	withTmpConfig(t)
	var out bytes.Buffer
	code := run(context.Background(), []string{"--help"}, strings.NewReader(""), &out, &out)
	require.Equal(t, output.ExitSuccess, code)
	require.Contains(t, out.String(), "sd manages employee records")
	for _, name := range []string{"login", "list", "add", "edit", "rm", "shell", "version"} {
		require.Contains(t, out.String(), name)
	}
}

func TestVersion(t *testing.T) {
	withTmpConfig(t)
	var out bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"version", "--short"}, strings.NewReader(""), &out, &out))
	require.Equal(t, version+"\n", out.String())

	out.Reset()
	require.Equal(t, 0, run(context.Background(), []string{"version", "--json"}, strings.NewReader(""), &out, &out))
	var v map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	require.Equal(t, version, v["version"])
}

func TestProtectedWithoutLogin(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)

	r := runSD(t, b, "", "list")
	require.Equal(t, output.ExitLoginNeeded, r.code)
	require.Contains(t, r.errOut, "Error: Login Required")
	require.Contains(t, r.errOut, "sd login")
}

func TestLoginBadPassword(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)

	r := runSD(t, b, "", "login", "-e", "admin@corp.io", "-p", "nope")
	require.Equal(t, output.ExitUsageError, r.code)
	require.Contains(t, r.errOut, "Invalid email or password")
}

func TestLoginPromptsForPassword(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)

	r := runSD(t, b, "secret\n", "login", "-e", "admin@corp.io")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	require.Contains(t, r.errOut, "Password: ")
}

func TestAddRequiresEveryFormField(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)
	login(t, b)

	r := runSD(t, b, "", "add", "--first-name", "Ada", "--last-name", "Lovelace", "--age", "36",
		"--gender", "Female", "--salary", "120000")
	require.Equal(t, output.ExitGeneral, r.code)
	for _, flag := range []string{"role", "experience", "address"} {
		require.Contains(t, r.errOut, flag)
	}
	list, err := b.employees.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestEmployeeLifecycle(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)
	login(t, b)

	r := runSD(t, b, "", "list")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	require.Contains(t, r.out, "No employees found")

	ada := addAda(t, b)

	r = runSD(t, b, "", "list", "-q", "LOVE")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	require.Contains(t, r.out, "Lovelace")

	r = runSD(t, b, "", "list", "--json", "-q", "grace")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	var filtered []model.Employee
	require.NoError(t, json.Unmarshal([]byte(r.out), &filtered))
	require.Empty(t, filtered)

	r = runSD(t, b, "", "edit", ada.ID, "--salary", "130000")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	got, err := b.employees.Get(context.Background(), ada.ID)
	require.NoError(t, err)
	require.Equal(t, int64(130000), got.Salary)
	require.Equal(t, "Engineer", got.Role, "unset flags keep their value")

	r = runSD(t, b, "", "edit", ada.ID, "--age", "12")
	require.Equal(t, output.ExitUsageError, r.code)
	require.Contains(t, r.errOut, "age must be between")

	r = runSD(t, b, "", "show", ada.ID)
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	require.Contains(t, r.out, "Lovelace")

	r = runSD(t, b, "n\n", "rm", ada.ID)
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	require.Contains(t, r.out, "Cancelled")
	require.Contains(t, r.errOut, "Are you sure you want to delete employee "+ada.ID+"?")

	r = runSD(t, b, "", "rm", "--yes", ada.ID)
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	_, err = b.employees.Get(context.Background(), ada.ID)
	require.Error(t, err)

	r = runSD(t, b, "", "show", ada.ID)
	require.Equal(t, output.ExitGeneral, r.code)
	require.Contains(t, r.errOut, "not found")
}

func TestLogoutDropsSession(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)
	login(t, b)

	r := runSD(t, b, "", "logout")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)

	r = runSD(t, b, "", "list")
	require.Equal(t, output.ExitLoginNeeded, r.code)
}

func TestShell(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)

	script := strings.Join([]string{
		"list",
		"login -e admin@corp.io -p secret",
		`add --first-name "Grace" --last-name Hopper --age 45 --gender Female --salary 150000 --role Admiral --experience 40 --address "Arlington, VA"`,
		"list -q hop",
		"status",
		"exit",
		"list",
	}, "\n") + "\n"

	r := runSD(t, b, script, "shell")
	require.Equal(t, output.ExitSuccess, r.code, r.errOut)
	require.Contains(t, r.errOut, "Error: Login Required")
	require.Contains(t, r.out, "Added Grace Hopper")
	require.Contains(t, r.out, "Hopper")
	require.Contains(t, r.out, "[authenticated]")
	require.Contains(t, r.errOut, "... checking session")
	require.Equal(t, 1, strings.Count(r.errOut, "Error:"), "lines after exit are not run")
}

func TestShell_EOFAndBadQuoting(t *testing.T) {
	withTmpConfig(t)
	b := newBackend(t)

	r := runSD(t, b, `list -q "unterminated`, "shell")
	require.Equal(t, output.ExitSuccess, r.code)
	require.Contains(t, r.errOut, "Error:")
}
