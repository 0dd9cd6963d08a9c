package errs

import "errors"

// Kind classifies a failure returned by a store or the remote client.
type Kind int

const (
	// KindUnknown is the zero kind; used for errors that are not *Error.
	KindUnknown Kind = iota
	// KindNetwork is a non-2xx HTTP status or a transport failure.
	KindNetwork
	// KindValidation is a rejected input or an unmatched lookup (credentials, token record).
	KindValidation
	// KindLoginRequired means there is no local session token.
	KindLoginRequired
	// KindSessionExpired means the local token is no longer known to the server.
	KindSessionExpired
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindLoginRequired:
		return "login_required"
	case KindSessionExpired:
		return "session_expired"
	default:
		return "unknown"
	}
}

// Error is the tagged failure returned by every asynchronous operation.
// Msg is the user-facing text; Detail is the server-supplied reason, if any.
type Error struct {
	Kind   Kind
	Op     string
	Msg    string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged failure.
func New(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Network builds a KindNetwork failure for op with user-facing msg.
func Network(op, msg string, err error) *Error {
	return New(KindNetwork, op, msg, err)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return err != nil && KindOf(err) == k }

// DefaultMessage is used when a failure carries no text at all.
const DefaultMessage = "An error occurred"

// Message returns the human-readable text of err. Msg wins over the server
// detail; an error with no text at all yields fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		if e.Detail != "" {
			return e.Detail
		}
	}
	if s := err.Error(); s != "" {
		return s
	}
	if fallback == "" {
		return DefaultMessage
	}
	return fallback
}

// DetailOf returns the server-supplied detail carried by err, if any.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}
