package protocol

import "testing"

func TestNewCRC(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		wantCRC  uint16
		wantPoly uint16
	}{
		{
			name:     "normal mode",
			mode:     ModeNormal,
			wantCRC:  0xC387,
			wantPoly: 0xC37B,
		},
		{
			name:     "multiplayer mode",
			mode:     ModeMultiplayer,
			wantCRC:  0xFFF8,
			wantPoly: 0xA517,
		},
		{
			name:     "unknown mode falls back to normal",
			mode:     Mode(42),
			wantCRC:  0xC387,
			wantPoly: 0xC37B,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crc := NewCRC(0x11, 0x22, tt.mode)
			if crc.Sum() != tt.wantCRC {
				t.Errorf("initial crc = 0x%04X, want 0x%04X", crc.Sum(), tt.wantCRC)
			}
			if crc.poly != tt.wantPoly {
				t.Errorf("polynomial = 0x%04X, want 0x%04X", crc.poly, tt.wantPoly)
			}
			if crc.hh != 0x11 || crc.rr != 0x22 {
				t.Errorf("header bytes = (0x%X, 0x%X), want (0x11, 0x22)", crc.hh, crc.rr)
			}
		})
	}
}

func TestCRCGolden(t *testing.T) {
	words := []uint32{0x00000000, 0x12345678, 0xDEADBEEF}

	tests := []struct {
		name      string
		mode      Mode
		wantAdd   uint16
		wantFinal uint16
	}{
		{
			name:      "normal mode",
			mode:      ModeNormal,
			wantAdd:   0x5D2F,
			wantFinal: 0x865F,
		},
		{
			name:      "multiplayer mode",
			mode:      ModeMultiplayer,
			wantAdd:   0x06B1,
			wantFinal: 0x3A87,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crc := NewCRC(0x11, 0x22, tt.mode)
			for _, w := range words {
				crc.Add(w)
			}
			if crc.Sum() != tt.wantAdd {
				t.Errorf("after Add = 0x%04X, want 0x%04X", crc.Sum(), tt.wantAdd)
			}
			if got := crc.Finalize(0); got != tt.wantFinal {
				t.Errorf("Finalize() = 0x%04X, want 0x%04X", got, tt.wantFinal)
			}
		})
	}
}

func TestCRCAddZero(t *testing.T) {
	tests := []struct {
		mode Mode
		want uint16
	}{
		{ModeNormal, 0xAEA0},
		{ModeMultiplayer, 0x0749},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			crc := NewCRC(0, 0, tt.mode)
			crc.Add(0)
			if crc.Sum() != tt.want {
				t.Errorf("Add(0) = 0x%04X, want 0x%04X", crc.Sum(), tt.want)
			}
		})
	}
}

func TestCRCFinalizeLayout(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want uint16
	}{
		{"normal mode", ModeNormal, 0xBE86},
		{"multiplayer mode", ModeMultiplayer, 0x7E97},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCRC(0x11, 0x22, tt.mode).Finalize(0x1234)
			if got != tt.want {
				t.Errorf("Finalize(0x1234) = 0x%04X, want 0x%04X", got, tt.want)
			}

			// The finalization word is FFFF | (word[15:8]+rr) | hh.
			manual := NewCRC(0x11, 0x22, tt.mode)
			manual.Add(0xFFFF2211)
			if manual.Sum() != got {
				t.Errorf("Finalize() = 0x%04X, manual fold = 0x%04X", got, manual.Sum())
			}
		})
	}
}

func TestCRCFinalizeIgnoresLowAndHighBytes(t *testing.T) {
	a := NewCRC(0x11, 0x22, ModeNormal).Finalize(0x00001200)
	b := NewCRC(0x11, 0x22, ModeNormal).Finalize(0xABCD12EF)
	if a != b {
		t.Errorf("Finalize should only use bits 8-15 of word: 0x%04X != 0x%04X", a, b)
	}
}

func TestCRCDeterminism(t *testing.T) {
	words := []uint32{0xCAFEBABE, 0x00C0FFEE, 0x13579BDF}
	run := func() uint16 {
		crc := NewCRC(0x2F, 0x7A, ModeNormal)
		for _, w := range words {
			crc.Add(w)
		}
		return crc.Finalize(0)
	}

	first := run()
	for i := 0; i < 10; i++ {
		if got := run(); got != first {
			t.Fatalf("run %d = 0x%04X, want 0x%04X", i, got, first)
		}
	}
}

func TestCRCSingleBitFlip(t *testing.T) {
	words := []uint32{0x00000000, 0x12345678, 0xDEADBEEF}

	for _, mode := range []Mode{ModeNormal, ModeMultiplayer} {
		run := func(ws []uint32) uint16 {
			crc := NewCRC(0x11, 0x22, mode)
			for _, w := range ws {
				crc.Add(w)
			}
			return crc.Finalize(0)
		}

		base := run(words)
		for i := range words {
			for bit := 0; bit < 32; bit++ {
				flipped := append([]uint32(nil), words...)
				flipped[i] ^= 1 << bit
				if got := run(flipped); got == base {
					t.Errorf("%s: flipping bit %d of word %d did not change checksum 0x%04X",
						mode, bit, i, base)
				}
			}
		}
	}
}

func TestCRCModeSeparation(t *testing.T) {
	inputs := [][]uint32{
		{},
		{0x00000000},
		{0x12345678, 0x9ABCDEF0},
		{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF},
	}

	for _, ws := range inputs {
		normal := NewCRC(0x11, 0x22, ModeNormal)
		multi := NewCRC(0x11, 0x22, ModeMultiplayer)
		for _, w := range ws {
			normal.Add(w)
			multi.Add(w)
		}
		n, m := normal.Finalize(0), multi.Finalize(0)
		if n == m {
			t.Errorf("words %08X: normal and multiplayer both produced 0x%04X", ws, n)
		}
	}
}

func TestCRCAddBytes(t *testing.T) {
	data := []byte{0x78, 0x56, 0x34, 0x12, 0xEF, 0xBE, 0xAD, 0xDE}

	byBytes := NewCRC(0, 0, ModeNormal)
	if err := byBytes.AddBytes(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byWords := NewCRC(0, 0, ModeNormal)
	byWords.Add(0x12345678)
	byWords.Add(0xDEADBEEF)

	if byBytes.Sum() != byWords.Sum() {
		t.Errorf("AddBytes = 0x%04X, Add = 0x%04X", byBytes.Sum(), byWords.Sum())
	}

	if err := byBytes.AddBytes([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for unaligned data, got nil")
	}
}

func BenchmarkCRCAdd(b *testing.B) {
	crc := NewCRC(0x11, 0x22, ModeNormal)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		crc.Add(uint32(i))
	}
}
