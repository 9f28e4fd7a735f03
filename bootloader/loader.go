package bootloader

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-gbaxfer/protocol"
)

// Link is the primitive transport the loader drives. The link package
// provides a serial implementation.
type Link interface {
	// Mode reports the link mode the transport was opened in
	Mode() protocol.Mode

	// SendBulk sends an entire image with the first-stage multiboot protocol
	SendBulk(ctx context.Context, data []byte) error

	// WriteWord sends a single 32-bit word
	WriteWord(w uint32) error

	// ReadWord returns the word received during the most recent WriteWord
	ReadWord() (uint32, error)
}

// Loader sends a second-stage loader over the primitive link and then
// streams the real payload through it.
//
// A Loader borrows its Link for the duration of each call. Exactly one
// transfer may be active on a link at a time; Loader is not safe for
// concurrent use.
type Loader struct {
	link   Link
	config Config
}

// New creates a new Loader with the given link and options.
//
// Example:
//
//	port, _ := link.Open("/dev/ttyACM0", protocol.ModeNormal)
//	loader := bootloader.New(port,
//	    bootloader.WithLoaderImage(loaderBin),
//	    bootloader.WithProgressCallback(progressFunc),
//	)
func New(link Link, opts ...Option) *Loader {
	if link == nil {
		panic("link cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Loader{
		link:   link,
		config: cfg,
	}
}

// Transfer performs the complete second-stage sequence:
//  1. Send the second-stage loader through the primitive link
//  2. Wait for the loader to echo the probe word
//  3. Announce the payload size in words
//  4. Stream the payload word by word
//  5. Check the final echoed word
//
// The payload length must be a multiple of 4.
func (l *Loader) Transfer(ctx context.Context, payload []byte) error {
	if err := l.SendSecondStage(ctx); err != nil {
		return fmt.Errorf("send second stage: %w", err)
	}
	if err := l.LoadSecondStage(ctx, payload); err != nil {
		return fmt.Errorf("load second stage: %w", err)
	}
	return nil
}

// SendSecondStage sends the configured loader image with the first-stage
// protocol. The link must be in normal mode; otherwise a ModeError is
// returned and nothing is sent.
func (l *Loader) SendSecondStage(ctx context.Context) error {
	if mode := l.link.Mode(); mode != protocol.ModeNormal {
		l.reportProgress(Progress{Phase: PhaseFailed})
		return &ModeError{Required: protocol.ModeNormal, Actual: mode}
	}
	if len(l.config.LoaderImage) == 0 {
		return ErrNoLoaderImage
	}

	l.reportProgress(Progress{Phase: PhaseSending})
	l.logInfo("sending second stage loader", "bytes", len(l.config.LoaderImage))

	if err := l.link.SendBulk(ctx, l.config.LoaderImage); err != nil {
		l.reportProgress(Progress{Phase: PhaseFailed})
		return err
	}
	return nil
}

// LoadSecondStage waits for the running second-stage loader and streams
// payload to it.
//
// The acknowledgment wait sends ProbeWord up to AckAttempts times, sleeping
// AckInterval after each probe, and returns a HandshakeTimeoutError if the
// probe is never echoed. After that every write is fire-and-forget: there is
// no per-word acknowledgment and a transport error aborts the transfer.
//
// The payload length must be a multiple of 4; trailing bytes are not sent.
func (l *Loader) LoadSecondStage(ctx context.Context, payload []byte) error {
	startTime := time.Now()

	l.logInfo("waiting for second stage loader")
	if err := l.awaitAck(ctx); err != nil {
		l.reportProgress(Progress{Phase: PhaseFailed, ElapsedTime: time.Since(startTime)})
		return err
	}

	if rem := len(payload) % protocol.WordSize; rem != 0 {
		l.logError("payload is not word aligned, trailing bytes dropped",
			"bytes", len(payload),
			"dropped", rem,
		)
	}
	words := len(payload) / protocol.WordSize

	// Announce size
	l.reportProgress(Progress{
		Phase:       PhaseAnnouncing,
		TotalWords:  words,
		ElapsedTime: time.Since(startTime),
	})
	if err := l.link.WriteWord(uint32(words)); err != nil {
		return fmt.Errorf("announce size: %w", err)
	}

	// Stream payload
	var last uint32
	for i := 0; i < words; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		off := i * protocol.WordSize
		last = protocol.PackWord(payload[off : off+protocol.WordSize])
		if err := l.link.WriteWord(last); err != nil {
			return fmt.Errorf("stream word %d: %w", i, err)
		}

		l.reportProgress(Progress{
			Phase:       PhaseStreaming,
			Word:        last,
			WordsSent:   i + 1,
			TotalWords:  words,
			Percentage:  float64(i+1) * 100 / float64(words),
			ElapsedTime: time.Since(startTime),
		})
	}

	var verified bool
	if words > 0 {
		var err error
		if verified, err = l.verify(words); err != nil {
			return err
		}
	}

	l.reportProgress(Progress{
		Phase:       PhaseComplete,
		WordsSent:   words,
		TotalWords:  words,
		Percentage:  100,
		Word:        last,
		Verified:    verified,
		ElapsedTime: time.Since(startTime),
	})

	l.logInfo("second stage transfer complete",
		"words", words,
		"elapsed", time.Since(startTime).String(),
	)

	return nil
}

// awaitAck probes the link until the second-stage loader echoes ProbeWord.
func (l *Loader) awaitAck(ctx context.Context) error {
	var reply uint32
	for attempt := 1; attempt <= l.config.AckAttempts; attempt++ {
		l.reportProgress(Progress{Phase: PhaseAwaitingAck, Attempt: attempt})

		if err := l.link.WriteWord(protocol.ProbeWord); err != nil {
			return fmt.Errorf("write probe: %w", err)
		}
		var err error
		reply, err = l.link.ReadWord()
		if err != nil {
			return fmt.Errorf("read probe reply: %w", err)
		}
		if err := l.config.Sleep(ctx, l.config.AckInterval); err != nil {
			return fmt.Errorf("await acknowledgment: %w", err)
		}

		if reply == protocol.ProbeWord {
			l.logDebug("second stage loader acknowledged", "attempt", attempt)
			return nil
		}
	}

	l.logError("second stage loader did not acknowledge",
		"attempts", l.config.AckAttempts,
		"last_reply", fmt.Sprintf("0x%08X", reply),
	)
	return &HandshakeTimeoutError{
		Attempts:  l.config.AckAttempts,
		LastReply: reply,
	}
}

// verify compares the word echoed after the final payload word with the
// load address of that word. A mismatch is only an error with StrictVerify.
func (l *Loader) verify(words int) (bool, error) {
	echo, err := l.link.ReadWord()
	if err != nil {
		return false, fmt.Errorf("read final echo: %w", err)
	}

	expected := uint32(protocol.LoadAddress + (words-1)*protocol.WordSize)
	if echo == expected {
		l.logDebug("final echo matched", "echo", fmt.Sprintf("0x%08X", echo))
		return true, nil
	}

	l.logDebug("final echo mismatch",
		"expected", fmt.Sprintf("0x%08X", expected),
		"actual", fmt.Sprintf("0x%08X", echo),
	)
	if l.config.StrictVerify {
		return false, &VerificationError{Expected: expected, Actual: echo}
	}
	return false, nil
}

// reportProgress calls the progress callback if configured.
func (l *Loader) reportProgress(progress Progress) {
	if l.config.ProgressCallback != nil {
		l.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (l *Loader) logDebug(msg string, keysAndValues ...interface{}) {
	if l.config.Logger != nil {
		l.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (l *Loader) logInfo(msg string, keysAndValues ...interface{}) {
	if l.config.Logger != nil {
		l.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (l *Loader) logError(msg string, keysAndValues ...interface{}) {
	if l.config.Logger != nil {
		l.config.Logger.Error(msg, keysAndValues...)
	}
}
