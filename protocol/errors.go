package protocol

import (
	"errors"
	"fmt"
)

// ProtocolError represents an unexpected reply from the remote device.
type ProtocolError struct {
	// Operation is the exchange that failed
	Operation string

	// Reply is the word returned by the remote
	Reply uint32

	// Reason describes what was expected
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s failed: unexpected reply 0x%08X", e.Operation, e.Reply)
	}
	return fmt.Sprintf("%s failed: %s, got 0x%08X", e.Operation, e.Reason, e.Reply)
}

// IsProtocolError returns true if err is or wraps a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
