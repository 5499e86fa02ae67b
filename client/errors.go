package client

import (
	"errors"
	"fmt"
)

// ErrAuthenticationRequired is returned when the server rejects the held
// session. The gateway has already discarded the token and routed the caller
// to re-authentication by the time this surfaces.
var ErrAuthenticationRequired = errors.New("authentication required")

// APIError is a non-success application response. Its message comes from the
// server payload when present.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// TransportError is a network or decode failure below the application layer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
