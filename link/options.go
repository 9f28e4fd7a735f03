package link

import (
	"encoding/binary"
	"time"

	"github.com/moffa90/go-gbaxfer/multiboot"
)

// Config holds the port configuration.
type Config struct {
	// BaudRate is used by Open when configuring the serial device
	BaudRate int

	// ByteOrder is the order in which word bytes travel over the wire
	ByteOrder binary.ByteOrder

	// ReadTimeout bounds each read of a reply word
	ReadTimeout time.Duration

	// Logger is used for logging operations (optional)
	Logger multiboot.Logger

	// MultibootOptions are passed to multiboot.Send by SendBulk
	MultibootOptions []multiboot.Option
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		BaudRate:    115200,
		ByteOrder:   binary.BigEndian,
		ReadTimeout: 2 * time.Second,
	}
}

// Option is a functional option for configuring a Port.
type Option func(*Config)

// WithBaudRate sets the serial baud rate used by Open.
//
// Example:
//
//	port, err := link.Open("/dev/ttyACM0", protocol.ModeNormal, link.WithBaudRate(57600))
func WithBaudRate(baud int) Option {
	return func(c *Config) {
		if baud > 0 {
			c.BaudRate = baud
		}
	}
}

// WithByteOrder sets the wire byte order of a word. Default is big endian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(c *Config) {
		if order != nil {
			c.ByteOrder = order
		}
	}
}

// WithReadTimeout sets the timeout for reading a reply word.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithLogger sets a logger for the port and for the multiboot exchange.
func WithLogger(logger multiboot.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMultibootOptions sets options forwarded to multiboot.Send by SendBulk.
//
// Example:
//
//	port := link.New(rw, protocol.ModeNormal,
//	    link.WithMultibootOptions(multiboot.WithProgressCallback(progressFunc)),
//	)
func WithMultibootOptions(opts ...multiboot.Option) Option {
	return func(c *Config) {
		c.MultibootOptions = append(c.MultibootOptions, opts...)
	}
}
