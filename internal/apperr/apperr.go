package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures the way the UI layer needs to react to them.
type Kind int

const (
	// Unknown is the zero value for errors that carry no kind.
	Unknown Kind = iota
	// NotFound: a referenced channel/message/contact does not exist.
	NotFound
	// Forbidden: the caller is not a participant of the target resource.
	Forbidden
	// Conflict: uniqueness violation (channel pair, typing key). Resolved
	// internally by re-fetch; should not normally reach the UI boundary.
	Conflict
	// Validation: the request is malformed and was rejected before any
	// store mutation.
	Validation
	// Transient: storage/transport unavailable. Surfaced to the caller,
	// never retried implicitly.
	Transient
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case Validation:
		return "validation"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is the taxonomy-carrying error used across services and repositories.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// KindOf extracts the kind of err, or Unknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// CodeOf extracts the machine-readable code of err, if any.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
