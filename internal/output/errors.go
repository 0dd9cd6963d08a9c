package output

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/and161185/staffdesk/internal/errs"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitLoginNeeded = 3
	ExitConfigError = 4
	ExitRemoteError = 5
)

// CLIError is a failure with user-facing context.
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error
}

func (e *CLIError) Error() string { return e.Summary }

func (e *CLIError) Unwrap() error { return e.Err }

// FromError maps a store failure to a CLIError.
func FromError(err error) *CLIError {
	var ce *CLIError
	if errors.As(err, &ce) {
		return ce
	}
	out := &CLIError{
		Summary:  errs.Message(err, errs.DefaultMessage),
		Detail:   errs.DetailOf(err),
		ExitCode: ExitGeneral,
		Err:      err,
	}
	switch errs.KindOf(err) {
	case errs.KindLoginRequired, errs.KindSessionExpired:
		out.ExitCode = ExitLoginNeeded
		out.Suggestion = "run 'sd login -e <email> -p <password>'"
	case errs.KindNetwork:
		out.ExitCode = ExitRemoteError
		if out.Detail == "" {
			var e *errs.Error
			if errors.As(err, &e) && e.Err != nil {
				out.Detail = e.Err.Error()
			}
		}
		if errors.Is(err, errs.ErrNotFound) {
			out.Suggestion = "run 'sd list' to see current ids"
		}
	case errs.KindValidation:
		out.ExitCode = ExitUsageError
	}
	return out
}

// FormatError prints err as an error banner on stderr.
func (p *Printer) FormatError(err error) {
	e := FromError(err)
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
	} else {
		fmt.Fprintf(p.err, "Error: %s\n", e.Summary)
	}
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
	}
	if e.Suggestion != "" {
		if p.useColors {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		} else {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
