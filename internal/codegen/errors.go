package codegen

import (
	"errors"
	"fmt"
)

// Kind classifies service errors for the HTTP layer.
type Kind int

const (
	// KindValidation is a malformed or empty input.
	KindValidation Kind = iota
	// KindInactive means the agent has not been activated.
	KindInactive
	// KindUnavailable means no runtime client is configured.
	KindUnavailable
	// KindGeneration wraps a failed runtime call.
	KindGeneration
	// KindState wraps a failure of the activation store.
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInactive:
		return "inactive"
	case KindUnavailable:
		return "unavailable"
	case KindGeneration:
		return "generation"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is returned by every Service operation that fails.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, so errors.Is(err, ErrInactive) works for any message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks.
var (
	ErrInactive    = &Error{Kind: KindInactive}
	ErrValidation  = &Error{Kind: KindValidation}
	ErrUnavailable = &Error{Kind: KindUnavailable}
	ErrGeneration  = &Error{Kind: KindGeneration}
	ErrState       = &Error{Kind: KindState}
)

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, format string, err error) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, err), Err: err}
}
