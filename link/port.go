package link

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.bug.st/serial"

	"github.com/moffa90/go-gbaxfer/multiboot"
	"github.com/moffa90/go-gbaxfer/protocol"
)

// ErrTimeout is returned when the adapter does not answer a word in time.
var ErrTimeout = errors.New("link: read timeout")

// ParseByteOrder converts a configuration name into a byte order.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "big", "big-endian", "bigendian":
		return binary.BigEndian, nil
	case "little", "little-endian", "littleendian":
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}

// Port is a word-level transport over a full-duplex serial adapter. Every
// word written clocks one word back from the remote; ReadWord returns it.
//
// Port satisfies bootloader.Link and multiboot.Exchanger. It is not safe for
// concurrent use.
type Port struct {
	rw     io.ReadWriter
	closer io.Closer
	mode   protocol.Mode
	config Config
	last   uint32
	buf    [protocol.WordSize]byte
}

// New wraps an already open device. The caller keeps ownership of rw; Close
// closes it only if it implements io.Closer.
func New(rw io.ReadWriter, mode protocol.Mode, opts ...Option) *Port {
	if rw == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Port{
		rw:     rw,
		mode:   mode,
		config: cfg,
	}
	if c, ok := rw.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// Open opens the serial device at path and returns a Port in the given mode.
//
// Example:
//
//	port, err := link.Open("/dev/ttyACM0", protocol.ModeNormal)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
func Open(path string, mode protocol.Mode, opts ...Option) (*Port, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sp, err := serial.Open(path, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := sp.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = sp.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	if err := sp.ResetInputBuffer(); err != nil {
		_ = sp.Close()
		return nil, fmt.Errorf("reset input buffer: %w", err)
	}

	p := New(sp, mode, opts...)
	p.logDebug("serial port open",
		"path", path,
		"baud", cfg.BaudRate,
		"mode", mode.String(),
	)
	return p, nil
}

// Mode returns the link mode the port was opened in.
func (p *Port) Mode() protocol.Mode {
	return p.mode
}

// WriteWord sends w and reads the word the remote clocked back.
func (p *Port) WriteWord(w uint32) error {
	p.config.ByteOrder.PutUint32(p.buf[:], w)
	if _, err := p.rw.Write(p.buf[:]); err != nil {
		return fmt.Errorf("write word: %w", err)
	}

	if err := p.readFull(p.buf[:]); err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	p.last = p.config.ByteOrder.Uint32(p.buf[:])
	return nil
}

// ReadWord returns the word received during the most recent WriteWord.
func (p *Port) ReadWord() (uint32, error) {
	return p.last, nil
}

// Exchange writes w and returns the reply in one call.
func (p *Port) Exchange(w uint32) (uint32, error) {
	if err := p.WriteWord(w); err != nil {
		return 0, err
	}
	return p.ReadWord()
}

// SendBulk sends data with the first-stage multiboot protocol.
func (p *Port) SendBulk(ctx context.Context, data []byte) error {
	opts := make([]multiboot.Option, 0, len(p.config.MultibootOptions)+1)
	if p.config.Logger != nil {
		opts = append(opts, multiboot.WithLogger(p.config.Logger))
	}
	opts = append(opts, p.config.MultibootOptions...)

	return multiboot.Send(ctx, p, p.mode, data, opts...)
}

// Close closes the underlying device if it is closable.
func (p *Port) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// readFull fills buf. A zero-length read with no error is how the serial
// driver reports an expired read timeout.
func (p *Port) readFull(buf []byte) error {
	for n := 0; n < len(buf); {
		m, err := p.rw.Read(buf[n:])
		n += m
		switch {
		case n == len(buf):
			return nil
		case errors.Is(err, io.EOF):
			return io.ErrUnexpectedEOF
		case err != nil:
			return err
		case m == 0:
			return ErrTimeout
		}
	}
	return nil
}

// logDebug logs a debug message if a logger is configured.
func (p *Port) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}
