package bootloader

import (
	"errors"
	"strings"
	"testing"

	"github.com/moffa90/go-gbaxfer/protocol"
)

func TestModeError(t *testing.T) {
	err := &ModeError{
		Required: protocol.ModeNormal,
		Actual:   protocol.ModeMultiplayer,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "link mode mismatch") {
		t.Errorf("error message should contain 'link mode mismatch', got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "requires normal") {
		t.Errorf("error message should contain required mode, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "multiplayer") {
		t.Errorf("error message should contain actual mode, got: %s", errMsg)
	}
}

func TestHandshakeTimeoutError(t *testing.T) {
	err := &HandshakeTimeoutError{
		Attempts:  16,
		LastReply: 0xDEADBEEF,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "did not acknowledge") {
		t.Errorf("error message should contain 'did not acknowledge', got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "16 attempts") {
		t.Errorf("error message should contain attempt count, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0xDEADBEEF") {
		t.Errorf("error message should contain last reply, got: %s", errMsg)
	}

	if !errors.Is(err, ErrHandshakeTimeout) {
		t.Error("HandshakeTimeoutError should unwrap to ErrHandshakeTimeout")
	}
}

func TestVerificationError(t *testing.T) {
	err := &VerificationError{
		Expected: 0x0200003C,
		Actual:   0x00000000,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "verification failed") {
		t.Errorf("error message should contain 'verification failed', got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x0200003C") {
		t.Errorf("error message should contain expected word, got: %s", errMsg)
	}
}

func TestErrorTypes(t *testing.T) {
	// Test that all error types implement error interface
	var _ error = &ModeError{}
	var _ error = &HandshakeTimeoutError{}
	var _ error = &VerificationError{}
}
