package httpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps every failure to obtain a response body: connection,
	// TLS and authentication errors as well as non-2xx statuses.
	ErrTransport = errors.New("transport failure")
	// ErrEmptyBody is returned when a request succeeded but carried no data.
	ErrEmptyBody = errors.New("empty response body")
)

// StatusError reports a response whose status code was not 2xx.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.URL, e.Status)
}

// Unwrap lets errors.Is(err, ErrTransport) match status errors.
func (e *StatusError) Unwrap() error {
	return ErrTransport
}
