// Package protocol implements the arithmetic of the multiboot link protocol.
//
// This package provides the pieces that must match the remote device bit for
// bit: the mode-selected constants, the 16-bit transfer checksum, the
// keystream cipher, and helpers to build command words and parse replies.
// It performs no I/O.
//
// # Link Modes
//
// Two link configurations exist, each with its own constants:
//
//	Mode             Polynomial  CRC seed  Key
//	ModeNormal       0xC37B      0xC387    0x43202F2F
//	ModeMultiplayer  0xA517      0xFFF8    0x6465646F
//
// # Checksum
//
// The checksum is a bit-serial CRC folded over 32-bit words, least
// significant bit first:
//
//	crc := protocol.NewCRC(hh, rr, protocol.ModeNormal)
//	for _, w := range words {
//	    crc.Add(w)
//	}
//	sum := crc.Finalize(0)
//
// # Keystream
//
// Every word after the header is masked with a keystream that depends on the
// word position and on a seed that advances on each call:
//
//	c := protocol.NewCipher(protocol.SeedFromHandshake(cc), protocol.ModeNormal)
//	for off := protocol.HeaderSize; off < len(rom); off += 4 {
//	    enc := c.Encrypt(protocol.PackWord(rom[off:]), uint32(off))
//	    // send enc
//	}
//
// Decoding uses the same operation with a cipher driven through the same
// positions in the same order. There is no random access.
//
// # Replies
//
// In normal mode the remote answers in the upper 16 bits of each exchanged
// word. Use IsSlaveReady, ParseHandshakeReply, ParseLengthReply and
// IsCRCReady to interpret them.
package protocol
