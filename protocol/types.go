package protocol

import (
	"fmt"
	"strings"
)

// Mode is the link configuration negotiated with the remote device.
// Each mode selects its own checksum polynomial, checksum seed and keystream key.
type Mode int

const (
	// ModeNormal is the single-host (32-bit normal) link mode
	ModeNormal Mode = iota

	// ModeMultiplayer is the peer-to-peer (16-bit multiplayer) link mode
	ModeMultiplayer
)

// modeParams holds the per-mode constants.
type modeParams struct {
	// Polynomial is the CRC feedback polynomial
	Polynomial uint16

	// InitialCRC is the accumulator value before any word is folded
	InitialCRC uint16

	// Key is the keystream key constant
	Key uint32
}

// modeTable is the single source of the mode-selected constants.
var modeTable = map[Mode]modeParams{
	ModeNormal: {
		Polynomial: 0xC37B,
		InitialCRC: 0xC387,
		Key:        0x43202F2F, // "C //"
	},
	ModeMultiplayer: {
		Polynomial: 0xA517,
		InitialCRC: 0xFFF8,
		Key:        0x6465646F, // "dedo"
	},
}

// params returns the constants for m. Anything other than ModeMultiplayer
// uses the normal-mode row.
func (m Mode) params() modeParams {
	if m == ModeMultiplayer {
		return modeTable[ModeMultiplayer]
	}
	return modeTable[ModeNormal]
}

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMultiplayer:
		return "multiplayer"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a configuration name into a Mode.
//
// Example:
//
//	mode, err := protocol.ParseMode("normal")
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "single", "single-host":
		return ModeNormal, nil
	case "multiplayer", "multi", "peer-to-peer":
		return ModeMultiplayer, nil
	default:
		return 0, fmt.Errorf("unknown link mode %q", s)
	}
}
