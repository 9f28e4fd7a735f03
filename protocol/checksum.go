package protocol

import "fmt"

// CRC is the running 16-bit checksum folded over every plaintext word of a
// multiboot transfer. The remote computes the same value and compares it
// against the one sent at the end of the transfer.
//
// A CRC is not safe for concurrent use.
type CRC struct {
	crc  uint16
	poly uint16
	hh   uint32
	rr   uint32
}

// NewCRC creates a checksum state for the given handshake bytes and mode.
// hh is the handshake value sent by the host, rr the value returned by the
// remote in response to the length command.
//
// Example:
//
//	crc := protocol.NewCRC(hh, rr, protocol.ModeNormal)
//	crc.Add(word)
//	sum := crc.Finalize(0)
func NewCRC(hh, rr uint32, mode Mode) *CRC {
	p := mode.params()
	return &CRC{
		crc:  p.InitialCRC,
		poly: p.Polynomial,
		hh:   hh,
		rr:   rr,
	}
}

// Add folds one 32-bit word into the checksum, least significant bit first.
func (c *CRC) Add(word uint32) {
	crc := c.crc
	for bit := 0; bit < BitsPerWord; bit++ {
		feedback := uint32(crc) ^ word
		crc >>= 1
		word >>= 1
		if feedback&1 != 0 {
			crc ^= c.poly
		}
	}
	c.crc = crc
}

// AddBytes folds data as a sequence of little-endian words.
// The length of data must be a multiple of WordSize.
func (c *CRC) AddBytes(data []byte) error {
	if len(data)%WordSize != 0 {
		return fmt.Errorf("data length %d is not a multiple of %d", len(data), WordSize)
	}
	for i := 0; i < len(data); i += WordSize {
		c.Add(PackWord(data[i : i+WordSize]))
	}
	return nil
}

// Finalize mixes the handshake bytes and the second byte of word into the
// checksum and returns the final value.
//
// The finalization word layout is:
//
//	FFFF | (word[15:8] + rr) | hh
//
// computed with 32-bit wraparound.
func (c *CRC) Finalize(word uint32) uint16 {
	composed := ((((word & CRCFinalDataMask) + c.rr) << 8) | CRCFinalMask) + c.hh
	c.Add(composed)
	return c.crc
}

// Sum returns the current accumulator without modifying it.
func (c *CRC) Sum() uint16 {
	return c.crc
}
