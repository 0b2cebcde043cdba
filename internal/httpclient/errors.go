package httpclient

import "fmt"

// StatusError reports a completed request that came back with a
// non-success status code.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// Status is the server's status line, e.g. "404 Not Found".
	Status string

	// URL is the requested URL.
	URL string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d (%s) for %s", e.Code, e.Status, e.URL)
}

// TransportError reports a request that never produced a response:
// connection failures, timeouts, cancelled contexts, truncated bodies.
type TransportError struct {
	// URL is the requested URL.
	URL string

	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
