package multiboot

import (
	"context"
	"time"
)

// Config holds the multiboot sender configuration.
type Config struct {
	// ProgressCallback is called after every encrypted word (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// PollAttempts bounds the slave-ready and CRC-ready polling loops
	PollAttempts int

	// PollInterval is the delay between polling attempts
	PollInterval time.Duration

	// SettleDelay is the pause after the handshake command, before the length
	SettleDelay time.Duration

	// Sleep waits for the given duration or until ctx is done
	Sleep func(ctx context.Context, d time.Duration) error
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		PollAttempts: 256,
		PollInterval: time.Millisecond,
		SettleDelay:  time.Second / 16,
		Sleep:        sleepContext,
	}
}

// Option is a functional option for configuring Send.
type Option func(*Config)

// WithProgressCallback sets a callback function to track transfer progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the multiboot exchange.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithPollAttempts sets how many times the ready polls are repeated before
// giving up.
func WithPollAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PollAttempts = n
		}
	}
}

// WithPollInterval sets the delay between polling attempts.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.PollInterval = d
		}
	}
}

// WithSettleDelay sets the pause between the handshake and length commands.
// The remote needs about 1/16 second to prepare for the data phase.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SettleDelay = d
		}
	}
}

// WithSleep replaces the function used to wait between exchanges.
// Tests use it to avoid real delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
