package discord

import "fmt"

// StatusError is returned when Discord answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discord returned status %d", e.StatusCode)
}

// ServerSide reports whether the rejection was a 5xx.
func (e *StatusError) ServerSide() bool {
	return e.StatusCode >= 500
}

// TransportError wraps failures that prevented a response from being read:
// encoding, connection, timeout, or an open circuit.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("discord %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
