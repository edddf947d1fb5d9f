package resource

import (
	"errors"
	"fmt"
	"net/url"
)

// TransportError means the endpoint could not be reached.
type TransportError struct {
	URL   string
	Cause error
}

// Error is the transport error text with the URL scrubbed.
func (e *TransportError) Error() string {
	var urlErr *url.Error
	if errors.As(e.Cause, &urlErr) {
		return fmt.Sprintf("%s %q: %v", urlErr.Op, ScrubURL(urlErr.URL), urlErr.Err)
	}
	return e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// StatusError means the endpoint answered with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// DecodeError means the response body could not be turned into items.
type DecodeError struct {
	Reason string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid response: %s: %v", e.Reason, e.Cause)
	}
	return "invalid response: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
