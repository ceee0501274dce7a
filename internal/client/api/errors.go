package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus marks a non-2xx HTTP answer.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse marks a body that is not JSON or lacks required fields.
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError is returned by every Client operation that fails. It is
// never retried by the client.
type TransportError struct {
	// Op names the failed operation, e.g. "generate password".
	Op string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
