package apperrors

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by a debounced task that was cancelled because a
// newer task for the same key was scheduled before its quiet period elapsed.
var ErrSuperseded = errors.New("superseded by a newer request")

// ErrVoiceUnavailable is returned when no speech recognition capability is present.
var ErrVoiceUnavailable = errors.New("speech recognition not supported in this browser")

// ErrRateLimited represents an HTTP 429 answer from the catalog API.
type ErrRateLimited struct {
	URL      string
	Attempts int
}

// Error implements the error interface.
func (e *ErrRateLimited) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("rate limited by %s after %d attempts", e.URL, e.Attempts)
	}
	return fmt.Sprintf("rate limited by %s", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrRateLimited) Is(target error) bool {
	_, ok := target.(*ErrRateLimited)
	return ok
}

// ErrUpstreamStatus is returned when the catalog API answers with a non-success status.
type ErrUpstreamStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUpstreamStatus) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrUpstreamStatus) Is(target error) bool {
	_, ok := target.(*ErrUpstreamStatus)
	return ok
}

// ErrMalformedBody is returned when a response body cannot be decoded.
type ErrMalformedBody struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ErrMalformedBody) Error() string {
	return fmt.Sprintf("malformed response body from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ErrMalformedBody) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedBody) Is(target error) bool {
	_, ok := target.(*ErrMalformedBody)
	return ok
}

// ErrMissingData is returned when a decoded envelope has no data field.
type ErrMissingData struct {
	URL string
}

// Error implements the error interface.
func (e *ErrMissingData) Error() string {
	return fmt.Sprintf("response from %s has no data field", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrMissingData) Is(target error) bool {
	_, ok := target.(*ErrMissingData)
	return ok
}
