package multiboot

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMode is returned when Send is asked to use a link mode it
// does not implement.
var ErrUnsupportedMode = errors.New("multiboot: unsupported link mode")

// ImageSizeError indicates the image cannot be delivered by multiboot.
type ImageSizeError struct {
	Size   int
	Reason string
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("invalid image size %d: %s", e.Size, e.Reason)
}

// PollTimeoutError indicates the remote never gave the expected reply.
type PollTimeoutError struct {
	// Stage is the exchange that was being polled
	Stage string

	// Attempts is the number of polls sent
	Attempts int

	// LastReply is the last word received
	LastReply uint32
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("%s: no reply after %d attempts (last 0x%08X)", e.Stage, e.Attempts, e.LastReply)
}
