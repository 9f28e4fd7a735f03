package protocol

import "fmt"

// PackWord assembles four bytes into a little-endian word:
//
//	b[0] | b[1]<<8 | b[2]<<16 | b[3]<<24
//
// b must hold at least WordSize bytes.
func PackWord(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// HeaderWord returns the index-th halfword of the cartridge header as a
// transfer word. The header is sent 16 bits at a time in the low half of
// each exchange.
func HeaderWord(header []byte, index int) (uint32, error) {
	if index < 0 || index >= HeaderSize/2 {
		return 0, fmt.Errorf("header index %d out of range 0-%d", index, HeaderSize/2-1)
	}
	if len(header) < HeaderSize {
		return 0, fmt.Errorf("header too short: got %d bytes, need %d", len(header), HeaderSize)
	}
	return uint32(header[2*index]) | uint32(header[2*index+1])<<8, nil
}

// HandshakeCmd builds the 64hh handshake command.
func HandshakeCmd(hh byte) uint32 {
	return CmdHandshake | uint32(hh)
}

// HandshakeValue derives the host handshake byte hh from the client byte cc.
func HandshakeValue(cc byte) byte {
	return cc + HandshakeOffset
}

// SeedFromHandshake derives the initial keystream seed from the client byte cc.
func SeedFromHandshake(cc byte) uint32 {
	return SeedBase | uint32(cc)<<8
}

// LengthCmd builds the length command for an image of size bytes.
// The remote expects the number of words after the header, minus 0x34.
//
// size must be a multiple of ROMAlignment within [HeaderSize, MaxROMSize].
func LengthCmd(size int) (uint32, error) {
	if size < HeaderSize || size > MaxROMSize {
		return 0, fmt.Errorf("image size %d out of range %d-%d", size, HeaderSize, MaxROMSize)
	}
	if size%ROMAlignment != 0 {
		return 0, fmt.Errorf("image size %d is not aligned to %d bytes", size, ROMAlignment)
	}
	return uint32(size-HeaderSize)/WordSize - 0x34, nil
}
