package multiboot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/moffa90/go-gbaxfer/protocol"
)

// slave simulates the remote side of a normal-mode multiboot exchange.
type slave struct {
	cc         byte
	rr         byte
	readyAfter int // number of CmdSlaveReady polls answered with zero
	crcAfter   int // number of CmdCRCPoll polls answered with zero

	phase    string
	polls    int
	crcPolls int
	header   []byte
	hh       byte
	words    int
	cipher   *protocol.Cipher
	data     []byte
	crc      uint32
	written  []uint32
	reply    uint32
	writeErr error
	failAt   int
}

func newSlave() *slave {
	return &slave{cc: 0x20, rr: 0x33, phase: "idle"}
}

func (s *slave) WriteWord(w uint32) error {
	if s.writeErr != nil && len(s.written) == s.failAt {
		return s.writeErr
	}
	s.written = append(s.written, w)
	s.reply = s.handle(w)
	return nil
}

func (s *slave) ReadWord() (uint32, error) {
	return s.reply, nil
}

func (s *slave) handle(w uint32) uint32 {
	switch s.phase {
	case "idle":
		if w == protocol.CmdSlaveReady {
			s.polls++
			if s.polls > s.readyAfter {
				s.phase = "ready"
				return 0x72020000
			}
		}
		return 0
	case "ready":
		if w == protocol.CmdHeaderStart {
			s.phase = "header"
		}
		return 0x72020000
	case "header":
		if len(s.header) < protocol.HeaderSize {
			s.header = append(s.header, byte(w), byte(w>>8))
			return uint32(len(s.header)/2) << 16
		}
		if w == protocol.CmdPalette {
			s.phase = "palette"
			return uint32(protocol.ReplyHandshake)<<24 | uint32(s.cc)<<16
		}
		return 0
	case "palette":
		if w == protocol.CmdPalette {
			return uint32(protocol.ReplyHandshake)<<24 | uint32(s.cc)<<16
		}
		if w&0xFF00 == protocol.CmdHandshake {
			s.hh = byte(w)
			s.phase = "length"
		}
		return 0
	case "length":
		s.words = int(w + 0x34)
		s.cipher = protocol.NewCipher(protocol.SeedFromHandshake(s.cc), protocol.ModeNormal)
		s.phase = "data"
		return uint32(s.rr) << 16
	case "data":
		off := uint32(protocol.HeaderSize + len(s.data))
		plain := s.cipher.Decrypt(w, off)
		s.data = append(s.data, byte(plain), byte(plain>>8), byte(plain>>16), byte(plain>>24))
		if len(s.data)/protocol.WordSize == s.words {
			s.phase = "crcpoll"
		}
		return 0
	case "crcpoll":
		if w == protocol.CmdCRCPoll {
			s.crcPolls++
			if s.crcPolls > s.crcAfter {
				return uint32(protocol.ReplyCRCReady) << 16
			}
			return 0
		}
		if w == protocol.CmdCRCSend {
			s.phase = "crc"
		}
		return 0
	case "crc":
		s.crc = w
		s.phase = "done"
		return w << 16
	}
	return 0
}

func testImage(size int) []byte {
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = byte(i)
	}
	return rom
}

func noSleep(calls *int) Option {
	return WithSleep(func(ctx context.Context, d time.Duration) error {
		if calls != nil {
			*calls++
		}
		return ctx.Err()
	})
}

func TestSendDeliversImage(t *testing.T) {
	rom := testImage(0x100)
	s := newSlave()
	s.readyAfter = 3

	var progress []Progress
	err := Send(context.Background(), s, protocol.ModeNormal, rom,
		noSleep(nil),
		WithProgressCallback(func(p Progress) { progress = append(progress, p) }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.phase != "done" {
		t.Fatalf("slave finished in phase %q, want done", s.phase)
	}
	if diff := cmp.Diff(rom[:protocol.HeaderSize], s.header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rom[protocol.HeaderSize:], s.data); diff != "" {
		t.Errorf("decrypted data mismatch (-want +got):\n%s", diff)
	}
	if s.hh != 0x2F {
		t.Errorf("handshake byte = 0x%02X, want 0x2F", s.hh)
	}
	if s.crc != 0xE09D {
		t.Errorf("crc = 0x%04X, want 0xE09D", s.crc)
	}

	wantWords := (0x100 - protocol.HeaderSize) / protocol.WordSize
	if len(progress) != wantWords {
		t.Fatalf("progress callbacks = %d, want %d", len(progress), wantWords)
	}
	if last := progress[len(progress)-1]; last.Percentage != 100 {
		t.Errorf("final percentage = %.1f, want 100", last.Percentage)
	}
}

func TestSendCRCMatchesIndependentComputation(t *testing.T) {
	rom := testImage(0x400)
	s := newSlave()
	s.cc = 0x7E
	s.rr = 0x91
	s.crcAfter = 2

	if err := Send(context.Background(), s, protocol.ModeNormal, rom, noSleep(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	crc := protocol.NewCRC(uint32(protocol.HandshakeValue(0x7E)), 0x91, protocol.ModeNormal)
	if err := crc.AddBytes(rom[protocol.HeaderSize:]); err != nil {
		t.Fatalf("AddBytes: %v", err)
	}
	if want := uint32(crc.Finalize(0)); s.crc != want {
		t.Errorf("crc sent = 0x%04X, want 0x%04X", s.crc, want)
	}
}

func TestSendLengthCommand(t *testing.T) {
	rom := testImage(0x200)
	s := newSlave()

	if err := Send(context.Background(), s, protocol.ModeNormal, rom, noSleep(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// CmdSlaveReady, CmdHeaderStart, 96 halfwords, 3 trailer commands,
	// palette, handshake, then the length word.
	idx := 1 + 1 + protocol.HeaderSize/2 + 3 + 1 + 1
	want := uint32(0x200-0x190) / 4
	if s.written[idx] != want {
		t.Errorf("length word = 0x%X, want 0x%X", s.written[idx], want)
	}
}

func TestSendSlaveNeverReady(t *testing.T) {
	s := newSlave()
	s.readyAfter = 1000

	var sleeps int
	err := Send(context.Background(), s, protocol.ModeNormal, testImage(0x100),
		noSleep(&sleeps),
		WithPollAttempts(5),
	)

	var pt *PollTimeoutError
	if !errors.As(err, &pt) {
		t.Fatalf("expected PollTimeoutError, got %v", err)
	}
	if pt.Stage != StageSlaveReady || pt.Attempts != 5 {
		t.Errorf("PollTimeoutError = %+v", pt)
	}
	if len(s.written) != 5 {
		t.Errorf("writes = %d, want 5", len(s.written))
	}
	if sleeps != 5 {
		t.Errorf("sleeps = %d, want 5", sleeps)
	}
}

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name   string
		mode   protocol.Mode
		size   int
		errMsg string
	}{
		{
			name:   "multiplayer not supported",
			mode:   protocol.ModeMultiplayer,
			size:   0x100,
			errMsg: "unsupported link mode",
		},
		{
			name:   "too small",
			mode:   protocol.ModeNormal,
			size:   0x80,
			errMsg: "smaller than",
		},
		{
			name:   "too large",
			mode:   protocol.ModeNormal,
			size:   protocol.MaxROMSize + 16,
			errMsg: "larger than",
		},
		{
			name:   "unaligned",
			mode:   protocol.ModeNormal,
			size:   0x104,
			errMsg: "not a multiple",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSlave()
			err := Send(context.Background(), s, tt.mode, testImage(tt.size), noSleep(nil))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want substring %q", err, tt.errMsg)
			}
			if len(s.written) != 0 {
				t.Errorf("writes = %d, want none", len(s.written))
			}
		})
	}
}

func TestSendWriteError(t *testing.T) {
	s := newSlave()
	s.writeErr = errors.New("link down")
	s.failAt = 50

	err := Send(context.Background(), s, protocol.ModeNormal, testImage(0x100), noSleep(nil))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, s.writeErr) {
		t.Errorf("error should wrap the transport error, got %v", err)
	}
}

func TestSendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newSlave()
	s.readyAfter = 10
	err := Send(ctx, s, protocol.ModeNormal, testImage(0x100), noSleep(nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
