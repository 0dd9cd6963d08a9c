package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/staffdesk/internal/model"
	"github.com/and161185/staffdesk/internal/output"
)

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store a session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return &output.CLIError{Summary: "email is required", Suggestion: "pass -e <email>", ExitCode: output.ExitUsageError}
			}
			if password == "" {
				p, err := c.prompt("Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			s, err := c.app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			c.printer.Success("Logged in as %s (session valid until %s)", s.Email, s.ExpiresAt.Format(time.Kitchen))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the local session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c.app.Session.Logout()
			c.printer.Success("Logged out")
			return nil
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local session state without contacting the server",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			printSession(c.printer, c.app.Session.Snapshot())
			if e := c.app.Employees.Snapshot().LastError; e != "" {
				c.printer.Print("employees: %s", e)
			}
			return nil
		},
	}
}

func newRefreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Revalidate the session token with the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.Session.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			c.printer.Success("Session valid until %s", s.ExpiresAt.Format(time.Kitchen))
			return nil
		},
	}
}

func newClearErrorCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-error",
		Short: "Dismiss the last session and employee errors",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c.app.Session.ClearError()
			c.app.Employees.ClearError()
			return nil
		},
	}
}

func printSession(p *output.Printer, s model.Session) {
	p.Print("status:  %s", p.StatusBadge(s.Status.String()))
	if s.Email != "" {
		p.Print("email:   %s", s.Email)
	}
	if s.UserID != "" {
		p.Print("user:    %s", s.UserID)
	}
	if s.Token != "" {
		p.Print("token:   %s", s.Token)
	}
	if !s.ExpiresAt.IsZero() {
		p.Print("expires: %s", s.ExpiresAt.Format(time.RFC3339))
	}
	if s.LastError != "" {
		p.Print("error:   %s", s.LastError)
	}
}

// prompt writes label to stderr and reads one line of input.
func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.errOut, label)
	line, err := c.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if err != nil && line == "" {
		return "", io.EOF
	}
	return strings.TrimSpace(line), nil
}
