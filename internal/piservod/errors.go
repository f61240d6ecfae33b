package piservod

import (
	"errors"
	"strings"
)

// Connection and transport sentinels.
var (
	// ErrNotConnected indicates an operation was attempted without an open connection.
	ErrNotConnected = errors.New("not connected to piservod")

	// ErrTimeout indicates the daemon did not answer within the configured timeout.
	ErrTimeout = errors.New("command timeout")
)

// Daemon rejection sentinels, matched from the ERROR response line.
var (
	ErrInvalidChannel       = errors.New("invalid channel")
	ErrInvalidGPIO          = errors.New("invalid gpio")
	ErrChannelNotConfigured = errors.New("channel not configured")
	ErrPulseOutOfRange      = errors.New("pulse out of range")
	ErrInvalidRange         = errors.New("invalid range")
)

// DaemonError is a command the daemon rejected, carrying the raw message
// from the ERROR line. It unwraps to the matched rejection sentinel, or to
// nothing when the message matches no known class.
type DaemonError struct {
	Message string
	kind    error
}

func (e *DaemonError) Error() string { return "piservod: " + e.Message }

func (e *DaemonError) Unwrap() error { return e.kind }

// errorClasses maps daemon message substrings to rejection sentinels. The
// daemon emits no structured error codes, so message text is the de facto
// contract: ordering and exact substrings must not change.
var errorClasses = []struct {
	substr string
	kind   error
}{
	{"Invalid channel", ErrInvalidChannel},
	{"Invalid GPIO", ErrInvalidGPIO},
	{"not configured", ErrChannelNotConfigured},
	{"out of range", ErrPulseOutOfRange},
	{"min must be less than max", ErrInvalidRange},
}

// classifyError maps a stripped ERROR payload to a typed rejection. First
// substring match wins.
func classifyError(message string) error {
	for _, class := range errorClasses {
		if strings.Contains(message, class.substr) {
			return &DaemonError{Message: message, kind: class.kind}
		}
	}
	return &DaemonError{Message: message}
}
