package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a catalog error for callers and the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "internal"
	}
}

// internalMessage is the only text an Internal error ever exposes.
const internalMessage = "Unexpected error, check server logs"

// Error is the error type returned by every catalog service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind != KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that term matched no product.
func NotFound(term string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Product with id %s not found", term),
	}
}

// NotFoundf reports a missing resource with a custom message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// InvalidInput reports a request the catalog refuses to process.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// Internal hides err behind an opaque message. err stays reachable via errors.Unwrap
// so it can be logged server side.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: internalMessage, Err: err}
}

// KindOf returns the kind of err. Errors not produced by this package are Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is a catalog error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Message returns the user-visible text for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return internalMessage
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
