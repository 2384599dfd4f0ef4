// Package errors defines the typed failures produced while serving a request.
// Internals keep the precise kind; the HTTP layer collapses kinds to a status.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the class of a failure.
type Kind string

// Failure kinds.
const (
	KindUnknown     Kind = "UNKNOWN"
	KindValidation  Kind = "VALIDATION"
	KindPayload     Kind = "PAYLOAD"
	KindReduction   Kind = "REDUCTION"
	KindArithmetic  Kind = "ARITHMETIC"
	KindRemoteCall  Kind = "REMOTE_CALL"
	KindRemoteParse Kind = "REMOTE_PARSE"
)

// ApplicationError is implemented by every error created in this package.
type ApplicationError interface {
	error
	Kind() Kind
	Unwrap() error
}

// Error is the concrete application error.
type Error struct {
	kind    Kind
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, errors.Validation) style checks against sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.message == "" && t.err == nil && t.kind == e.kind
}

// Sentinels usable with errors.Is.
var (
	Validation  = &Error{kind: KindValidation}
	Payload     = &Error{kind: KindPayload}
	Reduction   = &Error{kind: KindReduction}
	Arithmetic  = &Error{kind: KindArithmetic}
	RemoteCall  = &Error{kind: KindRemoteCall}
	RemoteParse = &Error{kind: KindRemoteParse}
)

// KindOf returns the kind of err, or KindUnknown if err is not an application error.
func KindOf(err error) Kind {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindUnknown
}

// HTTPStatus maps err to the status code reported to clients.
// Only request-shape failures are client errors.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if KindOf(err) == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func newError(kind Kind, message string, cause error) error {
	return &Error{
		kind:    kind,
		message: message,
		err:     cause,
	}
}

// NewValidationError reports a request whose shape selects no operation.
func NewValidationError(message string, cause error) error {
	return newError(KindValidation, message, cause)
}

// NewPayloadError reports an operation value of the wrong shape.
func NewPayloadError(message string, cause error) error {
	return newError(KindPayload, message, cause)
}

// NewReductionError reports a reduction that has no defined result.
func NewReductionError(message string, cause error) error {
	return newError(KindReduction, message, cause)
}

// NewArithmeticError reports an undefined or overflowing computation.
func NewArithmeticError(message string, cause error) error {
	return newError(KindArithmetic, message, cause)
}

// NewRemoteCallError reports a failed call to the text-generation service.
func NewRemoteCallError(message string, cause error) error {
	return newError(KindRemoteCall, message, cause)
}

// NewRemoteParseError reports a text-generation response missing expected fields.
func NewRemoteParseError(message string, cause error) error {
	return newError(KindRemoteParse, message, cause)
}
