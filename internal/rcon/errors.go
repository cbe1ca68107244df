package rcon

import (
	"errors"
	"fmt"
)

// The package reports failures through a closed set of error kinds so that
// callers can branch with errors.Is / errors.As instead of matching message
// strings.

var (
	// ErrAuthFailed is returned when the server answers the authentication
	// request with the reserved id -1.
	ErrAuthFailed = errors.New("rcon: authentication rejected by server")

	// ErrNotReady is returned by Execute on a session that has not completed
	// authentication, has failed, or has been closed.
	ErrNotReady = errors.New("rcon: session not ready")
)

// ConnectError reports a failure to establish the TCP connection.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("rcon: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// FramingError reports a frame whose declared size violates the protocol
// bounds. The stream offers no resynchronization primitive, so the frame is
// rejected without any recovery attempt.
type FramingError struct {
	Size   int32
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("rcon: bad frame (declared size %d): %s", e.Size, e.Reason)
}

// CorrelationError reports a response whose id does not match the id of the
// request that produced it.
type CorrelationError struct {
	Want int32
	Got  int32
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("rcon: response id %d does not match request id %d", e.Got, e.Want)
}
