package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Route      string
	StatusCode int
	// Status is the reason phrase, e.g. "Not Found".
	Status string
	// Message is the server-supplied explanation, if the body carried one.
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Route, e.StatusCode, e.UserMessage())
}

// UserMessage prefers the server's message, then the reason phrase.
func (e *StatusError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != "" {
		return e.Status
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "HTTP " + strconv.Itoa(e.StatusCode)
}

// NotFound reports whether the backend answered 404.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError is returned when no HTTP response was obtained: connection
// refused, DNS failure, timeout, or an open circuit breaker.
type TransportError struct {
	Method string
	Route  string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Route, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage returns the transport error text.
func (e *TransportError) UserMessage() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

// DecodeError is returned when a response body does not have the expected shape.
type DecodeError struct {
	Method string
	Route  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: malformed response: %v", e.Method, e.Route, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UserMessage describes the shape failure.
func (e *DecodeError) UserMessage() string {
	return "unexpected response from server: " + e.Err.Error()
}

// ErrBackendUnavailable is wrapped by TransportError while the circuit breaker is open.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Message extracts a human-readable message from any error returned by this
// package. Errors without a user message fall back to their Error() text, and
// an empty result becomes "unknown error".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "unknown error"
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.NotFound()
}
