package bootloader

import "time"

// Phase names reported in Progress.Phase. They follow the transfer sequence:
//
//	sending -> awaiting-ack -> announcing -> streaming -> complete
//
// with failed reachable from sending and awaiting-ack.
const (
	PhaseSending     = "sending"
	PhaseAwaitingAck = "awaiting-ack"
	PhaseAnnouncing  = "announcing"
	PhaseStreaming   = "streaming"
	PhaseComplete    = "complete"
	PhaseFailed      = "failed"
)

// Progress contains information about the transfer progress.
// Passed to ProgressCallback during transfer operations.
type Progress struct {
	// Phase is one of the Phase* constants
	Phase string

	// Word is the last word sent while streaming
	Word uint32

	// WordsSent is the number of payload words sent so far
	WordsSent int

	// TotalWords is the number of payload words to send
	TotalWords int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// Verified is set on PhaseComplete when the echo of the final word
	// matched its load address
	Verified bool

	// Attempt is the current acknowledgment probe (1-based) while awaiting-ack
	Attempt int

	// ElapsedTime is the time elapsed since the transfer started
	ElapsedTime time.Duration
}

// ProgressCallback is called during transfers to report progress.
// Implementations should return quickly to avoid slowing the link.
//
// Example:
//
//	loader := bootloader.New(link,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        if p.Phase == bootloader.PhaseStreaming {
//	            fmt.Fprintf(os.Stderr, "\r2nd stage loader (%02.0f%%): %08x", p.Percentage, p.Word)
//	        }
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the loader.
// This allows integration with any logging framework; the logging package
// provides a zerolog implementation.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
