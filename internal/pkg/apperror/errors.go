// internal/pkg/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the part of the system it came from
type Kind string

const (
	KindNetwork    Kind = "NetworkError"
	KindValidation Kind = "ValidationError"
	KindStorage    Kind = "StorageError"
	KindCart       Kind = "CartError"
	KindUnknown    Kind = "UnknownError"
)

// Sentinel errors shared across packages
var (
	ErrSuperseded  = errors.New("superseded by a newer request")
	ErrEmptyCart   = errors.New("cart is empty")
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// Error is the typed error carried across domain boundaries
type Error struct {
	Kind    Kind
	Op      string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Op != "" && e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Field, msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without an underlying cause
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches a kind and operation to err. A nil err stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Network wraps a failed outbound call
func Network(op string, err error) error {
	return Wrap(KindNetwork, op, err)
}

// Storage wraps a failed persistence call
func Storage(op string, err error) error {
	return Wrap(KindStorage, op, err)
}

// Validation reports a field that failed a rule
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Op: "validate", Field: field, Message: message}
}

// KindOf returns the kind of the first typed error in the chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage is the toast text shown for a kind
func UserMessage(kind Kind) string {
	switch kind {
	case KindNetwork:
		return "Network error. Please check your connection."
	case KindStorage:
		return "Storage error. Your data may not be saved."
	case KindValidation:
		return "Please correct the highlighted fields."
	case KindCart:
		return "There was a problem updating your cart."
	default:
		return "Something went wrong. Please try again."
	}
}
