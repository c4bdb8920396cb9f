package gimbal

import (
	"errors"
	"fmt"
	"net"
)

// ErrorType categorises session-level failures. Codec failures (malformed
// frames, rejected parameters) keep their own types in internal/protocol
// and pass through untouched.
type ErrorType int

const (
	// ErrTypeNotConnected: an operation was attempted while the session
	// is Disconnected.
	ErrTypeNotConnected ErrorType = iota
	// ErrTypeTransport: the underlying connection failed; the session
	// has transitioned to Disconnected.
	ErrTypeTransport
	// ErrTypeNoData: telemetry polling exhausted its attempts without a
	// single telemetry frame.
	ErrTypeNoData
	// ErrTypeUnexpectedResponse: the unit answered with a response of a
	// different kind than the command calls for.
	ErrTypeUnexpectedResponse
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNotConnected:
		return "Not Connected"
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeNoData:
		return "No Data Received"
	case ErrTypeUnexpectedResponse:
		return "Unexpected Response"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// SessionError is the error returned by Session operations.
type SessionError struct {
	Type    ErrorType
	Message string
	Err     error // underlying cause, if any
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// IsNotConnected reports whether err is a not-connected session error.
func IsNotConnected(err error) bool { return hasType(err, ErrTypeNotConnected) }

// IsTransport reports whether err is a transport session error.
func IsTransport(err error) bool { return hasType(err, ErrTypeTransport) }

// IsNoData reports whether err is a no-data-received session error.
func IsNoData(err error) bool { return hasType(err, ErrTypeNoData) }

func hasType(err error, t ErrorType) bool {
	var se *SessionError
	return errors.As(err, &se) && se.Type == t
}

func errNotConnected() *SessionError {
	return &SessionError{Type: ErrTypeNotConnected, Message: "session is disconnected"}
}

func errTransport(message string, err error) *SessionError {
	return &SessionError{Type: ErrTypeTransport, Message: message, Err: err}
}

func errNoData(attempts int) *SessionError {
	return &SessionError{
		Type:    ErrTypeNoData,
		Message: fmt.Sprintf("no telemetry after %d attempts", attempts),
	}
}

// isTimeout reports whether err is a read deadline expiry, which polling
// treats as expected steady-state behaviour rather than a failure.
func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
