package bootloader

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-gbaxfer/protocol"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrHandshakeTimeout is wrapped by HandshakeTimeoutError
	ErrHandshakeTimeout = errors.New("second stage loader did not acknowledge")

	// ErrNoLoaderImage is returned by SendSecondStage when no image is configured
	ErrNoLoaderImage = errors.New("no second stage loader image configured")
)

// ModeError indicates the link is not in the mode required for an operation.
// No data is sent when this error is returned.
type ModeError struct {
	Required protocol.Mode
	Actual   protocol.Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("link mode mismatch: operation requires %s mode, link is in %s mode",
		e.Required, e.Actual)
}

// HandshakeTimeoutError indicates the second-stage loader never echoed the probe.
type HandshakeTimeoutError struct {
	// Attempts is the number of probes sent
	Attempts int

	// LastReply is the last word read back
	LastReply uint32
}

func (e *HandshakeTimeoutError) Error() string {
	return fmt.Sprintf("%s after %d attempts (last reply 0x%08X)",
		ErrHandshakeTimeout, e.Attempts, e.LastReply)
}

// Unwrap returns ErrHandshakeTimeout.
func (e *HandshakeTimeoutError) Unwrap() error {
	return ErrHandshakeTimeout
}

// VerificationError indicates the final echoed word did not match the
// expected load address.
type VerificationError struct {
	Expected uint32
	Actual   uint32
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("transfer verification failed: expected final word 0x%08X, got 0x%08X",
		e.Expected, e.Actual)
}
