package backend

import (
	"errors"
	"fmt"
	"net"
)

// ErrScrapeUnsupported is returned by Scrape when the contract has no scrape endpoint.
var ErrScrapeUnsupported = errors.New("backend has no scrape endpoint")

// TransportError is returned when the request never produced an HTTP response
// (network unreachable, connection reset, timeout).
type TransportError struct {
	Op  string // "scrape" or "ask"
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a timeout.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ServerError is returned when the backend answered with a non-2xx status
// or with a body that could not be understood.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error // Decoding error, nil for status failures
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.StatusCode, truncate(e.Body, maxErrorBody))
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

const maxErrorBody = 200

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
