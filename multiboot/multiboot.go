package multiboot

import (
	"context"
	"fmt"

	"github.com/moffa90/go-gbaxfer/protocol"
)

// Stage names used in errors and log messages.
const (
	StageSlaveReady = "wait for slave"
	StageHeader     = "send header"
	StageHandshake  = "handshake"
	StageData       = "send data"
	StageCRC        = "send crc"
)

// sender holds the state of one multiboot exchange.
type sender struct {
	ex     Exchanger
	config Config
}

// Send delivers rom to the remote using the first-stage multiboot protocol.
// The image is sent in full: the 0xC0-byte header in clear, then every
// following word masked by the keystream, then the transfer checksum.
//
// The length of rom must be a multiple of 16 within [0xC0, 0x40000]; use the
// rom package to load and pad files. Only protocol.ModeNormal is supported.
//
// Example:
//
//	err := multiboot.Send(ctx, port, protocol.ModeNormal, image.Data,
//	    multiboot.WithProgressCallback(func(p multiboot.Progress) {
//	        fmt.Printf("\r%.0f%%", p.Percentage)
//	    }),
//	)
func Send(ctx context.Context, ex Exchanger, mode protocol.Mode, rom []byte, opts ...Option) error {
	if ex == nil {
		return fmt.Errorf("exchanger cannot be nil")
	}
	if mode != protocol.ModeNormal {
		return fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	if err := validateSize(len(rom)); err != nil {
		return err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &sender{ex: ex, config: cfg}

	return s.run(ctx, rom)
}

func validateSize(size int) error {
	switch {
	case size < protocol.HeaderSize:
		return &ImageSizeError{Size: size, Reason: fmt.Sprintf("smaller than the %d-byte header", protocol.HeaderSize)}
	case size > protocol.MaxROMSize:
		return &ImageSizeError{Size: size, Reason: fmt.Sprintf("larger than %d bytes", protocol.MaxROMSize)}
	case size%protocol.ROMAlignment != 0:
		return &ImageSizeError{Size: size, Reason: fmt.Sprintf("not a multiple of %d", protocol.ROMAlignment)}
	}
	return nil
}

func (s *sender) run(ctx context.Context, rom []byte) error {
	// Phase 1: wait until the remote is listening
	if _, err := s.poll(ctx, StageSlaveReady, protocol.CmdSlaveReady, protocol.IsSlaveReady); err != nil {
		return err
	}
	s.logDebug("slave ready")

	// Phase 2: header in clear, one halfword per exchange
	if _, err := s.xfer(protocol.CmdHeaderStart); err != nil {
		return fmt.Errorf("%s: %w", StageHeader, err)
	}
	for i := 0; i < protocol.HeaderSize/2; i++ {
		w, err := protocol.HeaderWord(rom, i)
		if err != nil {
			return fmt.Errorf("%s: %w", StageHeader, err)
		}
		if _, err := s.xfer(w); err != nil {
			return fmt.Errorf("%s: halfword %d: %w", StageHeader, i, err)
		}
	}
	for _, cmd := range []uint32{protocol.CmdHeaderEnd, protocol.CmdSlaveReady, protocol.CmdPalette} {
		if _, err := s.xfer(cmd); err != nil {
			return fmt.Errorf("%s: %w", StageHeader, err)
		}
	}
	s.logDebug("header sent", "bytes", protocol.HeaderSize)

	// Phase 3: handshake and length
	reply, err := s.xfer(protocol.CmdPalette)
	if err != nil {
		return fmt.Errorf("%s: %w", StageHandshake, err)
	}
	cc, err := protocol.ParseHandshakeReply(reply)
	if err != nil {
		return err
	}

	hh := protocol.HandshakeValue(cc)
	seed := protocol.SeedFromHandshake(cc)
	if _, err := s.xfer(protocol.HandshakeCmd(hh)); err != nil {
		return fmt.Errorf("%s: %w", StageHandshake, err)
	}
	if err := s.config.Sleep(ctx, s.config.SettleDelay); err != nil {
		return fmt.Errorf("%s: %w", StageHandshake, err)
	}

	length, err := protocol.LengthCmd(len(rom))
	if err != nil {
		return err
	}
	reply, err = s.xfer(length)
	if err != nil {
		return fmt.Errorf("%s: %w", StageHandshake, err)
	}
	rr := protocol.ParseLengthReply(reply)

	s.logDebug("handshake complete",
		"cc", fmt.Sprintf("0x%02X", cc),
		"hh", fmt.Sprintf("0x%02X", hh),
		"rr", fmt.Sprintf("0x%02X", rr),
		"seed", fmt.Sprintf("0x%08X", seed),
	)

	// Phase 4: encrypted data
	crc := protocol.NewCRC(uint32(hh), uint32(rr), protocol.ModeNormal)
	cipher := protocol.NewCipher(seed, protocol.ModeNormal)

	for off := protocol.HeaderSize; off < len(rom); off += protocol.WordSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		w := protocol.PackWord(rom[off : off+protocol.WordSize])
		crc.Add(w)
		if _, err := s.xfer(cipher.Encrypt(w, uint32(off))); err != nil {
			return fmt.Errorf("%s: offset 0x%X: %w", StageData, off, err)
		}

		s.reportProgress(Progress{
			Offset:     off,
			Size:       len(rom),
			Percentage: float64(off+protocol.WordSize) * 100 / float64(len(rom)),
		})
	}

	// Phase 5: checksum
	if _, err := s.poll(ctx, StageCRC, protocol.CmdCRCPoll, protocol.IsCRCReady); err != nil {
		return err
	}
	if _, err := s.xfer(protocol.CmdCRCSend); err != nil {
		return fmt.Errorf("%s: %w", StageCRC, err)
	}

	sum := crc.Finalize(0)
	reply, err = s.xfer(uint32(sum))
	if err != nil {
		return fmt.Errorf("%s: %w", StageCRC, err)
	}

	if echoed := protocol.ParseCRCReply(reply); echoed != sum {
		s.logDebug("crc echo differs",
			"sent", fmt.Sprintf("0x%04X", sum),
			"echoed", fmt.Sprintf("0x%04X", echoed),
		)
	}

	s.logInfo("multiboot transfer complete",
		"bytes", len(rom),
		"crc", fmt.Sprintf("0x%04X", sum),
	)

	return nil
}

// xfer writes w and returns the word received during the same exchange.
func (s *sender) xfer(w uint32) (uint32, error) {
	if err := s.ex.WriteWord(w); err != nil {
		return 0, fmt.Errorf("write 0x%08X: %w", w, err)
	}
	reply, err := s.ex.ReadWord()
	if err != nil {
		return 0, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}

// poll repeats cmd until ready accepts the reply or the attempts run out.
func (s *sender) poll(ctx context.Context, stage string, cmd uint32, ready func(uint32) bool) (uint32, error) {
	var reply uint32
	for attempt := 1; attempt <= s.config.PollAttempts; attempt++ {
		var err error
		reply, err = s.xfer(cmd)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", stage, err)
		}
		if ready(reply) {
			return reply, nil
		}
		if err := s.config.Sleep(ctx, s.config.PollInterval); err != nil {
			return 0, fmt.Errorf("%s: %w", stage, err)
		}
	}

	s.logError("poll timed out", "stage", stage, "attempts", s.config.PollAttempts)
	return 0, &PollTimeoutError{
		Stage:     stage,
		Attempts:  s.config.PollAttempts,
		LastReply: reply,
	}
}

// reportProgress calls the progress callback if configured.
func (s *sender) reportProgress(progress Progress) {
	if s.config.ProgressCallback != nil {
		s.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (s *sender) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (s *sender) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (s *sender) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
