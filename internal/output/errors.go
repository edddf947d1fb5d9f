package output

import (
	"errors"
	"fmt"

	"github.com/basecamp/places-cli/internal/resource"
	"github.com/basecamp/places-cli/internal/tui"
)

// Error is a structured error with code, message, and optional hint.
type Error struct {
	Code       string
	Message    string
	Hint       string
	HTTPStatus int
	Cause      error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

func ErrNetwork(cause error) *Error {
	return &Error{
		Code:    CodeNetwork,
		Message: cause.Error(),
		Hint:    "Check that the endpoint is running and reachable",
		Cause:   cause,
	}
}

func ErrAPI(status int, msg string) *Error {
	return &Error{
		Code:       CodeAPI,
		Message:    msg,
		HTTPStatus: status,
	}
}

func ErrDecode(cause error) *Error {
	return &Error{
		Code:    CodeDecode,
		Message: cause.Error(),
		Hint:    "Check --collection against the endpoint's response",
		Cause:   cause,
	}
}

func ErrCanceled(cause error) *Error {
	return &Error{Code: CodeCanceled, Message: "Canceled", Cause: cause}
}

// AsError converts an error to an *Error, classifying fetch failures.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var transportErr *resource.TransportError
	var statusErr *resource.StatusError
	var decodeErr *resource.DecodeError
	switch {
	case errors.Is(err, tui.ErrCanceled):
		return ErrCanceled(err)
	case errors.As(err, &transportErr):
		return ErrNetwork(err)
	case errors.As(err, &statusErr):
		e := ErrAPI(statusErr.StatusCode, statusErr.Message)
		e.Cause = err
		return e
	case errors.As(err, &decodeErr):
		return ErrDecode(err)
	}

	return &Error{
		Code:    CodeAPI,
		Message: err.Error(),
		Cause:   err,
	}
}
