package fault

import (
	"errors"
	"fmt"
)

// Kind is the machine-checkable classification carried by every business
// error the core surfaces. Handlers map kinds to HTTP statuses; usecase
// tests assert on kinds instead of message text.
type Kind string

const (
	Validation        Kind = "validation"
	NotFound          Kind = "not_found"
	Forbidden         Kind = "forbidden"
	Conflict          Kind = "conflict"
	InvalidTransition Kind = "invalid_transition"
)

type Error struct {
	Kind    Kind
	Message string
	wrapped error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.wrapped }

// Is lets errors.Is match any fault of the same kind, so sentinel values
// like fault.New(fault.Conflict, "...") compare by kind rather than identity.
func (e *Error) Is(target error) bool {
	var fe *Error
	if errors.As(target, &fe) {
		return fe.Kind == e.Kind
	}
	return false
}

func New(k Kind, format string, args ...any) error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(err error, k Kind, format string, args ...any) error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), wrapped: err}
}

// KindOf returns the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }
