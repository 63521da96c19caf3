package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoData is returned when every attempt of a fetch failed.
var ErrNoData = errors.New("no data received")

// StatusError is the cause recorded for an attempt that got a response
// other than HTTP 200.
type StatusError struct {
	// Code is the HTTP status code of the response.
	Code int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Error is returned by Client.Fetch after the attempt budget is exhausted.
// It matches ErrNoData with errors.Is and exposes the last attempt's cause.
type Error struct {
	// URL is the requested URL.
	URL string

	// Attempts is the number of attempts made.
	Attempts int

	// Cause is the failure of the last attempt: a *StatusError, a
	// transport error, or a context error.
	Cause error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s from %s after %d attempt(s): %v", ErrNoData, e.URL, e.Attempts, e.Cause)
}

// Unwrap returns both ErrNoData and the last cause.
func (e *Error) Unwrap() []error {
	return []error{ErrNoData, e.Cause}
}
