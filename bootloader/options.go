package bootloader

import (
	"context"
	"time"
)

// Default acknowledgment policy of the second-stage loader.
const (
	DefaultAckAttempts = 16
	DefaultAckInterval = 250 * time.Millisecond
)

// Config holds the loader configuration.
type Config struct {
	// LoaderImage is the second-stage loader sent by SendSecondStage
	LoaderImage []byte

	// ProgressCallback is called during transfers to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// AckAttempts is the number of probes sent while waiting for the
	// second-stage loader to answer
	AckAttempts int

	// AckInterval is the delay after each probe
	AckInterval time.Duration

	// Sleep waits for the given duration or until ctx is done
	Sleep func(ctx context.Context, d time.Duration) error

	// StrictVerify turns a final-word mismatch into an error
	StrictVerify bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		AckAttempts: DefaultAckAttempts,
		AckInterval: DefaultAckInterval,
		Sleep:       sleepContext,
	}
}

// Option is a functional option for configuring the Loader.
type Option func(*Config)

// WithLoaderImage sets the second-stage loader binary.
//
// Example:
//
//	//go:embed loader.bin
//	var loaderBin []byte
//
//	loader := bootloader.New(link, bootloader.WithLoaderImage(loaderBin))
func WithLoaderImage(image []byte) Option {
	return func(c *Config) {
		c.LoaderImage = image
	}
}

// WithProgressCallback sets a callback function to track transfer progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the loader operations.
//
// Example:
//
//	loader := bootloader.New(link, bootloader.WithLogger(logging.NewAdapter(log)))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAckAttempts sets how many probes are sent before giving up on the
// second-stage loader. Default is 16.
func WithAckAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts > 0 {
			c.AckAttempts = attempts
		}
	}
}

// WithAckInterval sets the delay after each probe. Default is 250ms.
func WithAckInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval >= 0 {
			c.AckInterval = interval
		}
	}
}

// WithSleep replaces the function used to wait between probes.
//
// Example:
//
//	var waited time.Duration
//	loader := bootloader.New(link, bootloader.WithSleep(
//	    func(ctx context.Context, d time.Duration) error {
//	        waited += d
//	        return nil
//	    }),
//	)
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}

// WithStrictVerify makes LoadSecondStage return a VerificationError when the
// final echoed word differs from the expected address. Default is false: the
// mismatch is only logged.
func WithStrictVerify(strict bool) Option {
	return func(c *Config) {
		c.StrictVerify = strict
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
