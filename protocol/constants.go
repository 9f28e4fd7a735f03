package protocol

// Memory layout of the remote device.
const (
	// LoadAddress is where multiboot images are placed in remote RAM (0x02000000)
	LoadAddress = 0x02000000

	// HeaderSize is the size of the cartridge header sent in clear (0xC0 bytes)
	HeaderSize = 0xC0

	// MaxROMSize is the largest image multiboot can deliver (256 KiB of work RAM)
	MaxROMSize = 0x40000

	// ROMAlignment is the byte alignment required for multiboot images
	ROMAlignment = 16

	// WordSize is the size of a single link transfer in bytes
	WordSize = 4
)

// Multiboot command words sent by the host in normal mode.
const (
	// CmdSlaveReady polls the remote until it reports it is waiting for a header
	CmdSlaveReady = 0x00006202

	// CmdHeaderStart announces the start of the header transfer
	CmdHeaderStart = 0x00006102

	// CmdHeaderEnd terminates the header transfer
	CmdHeaderEnd = 0x00006200

	// CmdPalette carries the palette/boot animation selector (pp = 0xD1)
	CmdPalette = 0x000063D1

	// CmdHandshake is OR'ed with the handshake byte (64hh)
	CmdHandshake = 0x00006400

	// CmdCRCPoll polls the remote until it is ready to receive the CRC
	CmdCRCPoll = 0x00000065

	// CmdCRCSend announces that the next word is the CRC
	CmdCRCSend = 0x00000066
)

// Multiboot replies from the remote (upper 16 bits of the exchanged word).
const (
	// ReplySlaveReady is returned once the remote accepts a header
	ReplySlaveReady = 0x7202

	// ReplyHandshake is the high byte of the palette reply (73cc)
	ReplyHandshake = 0x73

	// ReplyCRCReady is returned once the remote has received all data
	ReplyCRCReady = 0x0075
)

// Keystream and handshake constants.
const (
	// SeedMultiplier is the linear congruential multiplier of the keystream
	SeedMultiplier = 0x6F646573

	// SeedBase is combined with the client byte to form the initial keystream seed
	SeedBase = 0xFFFF00D1

	// HandshakeOffset is added to the client byte to form the handshake value hh
	HandshakeOffset = 0x0F

	// ProbeWord is echoed back by the second-stage loader once it is running
	ProbeWord = 0xFA57B007
)

// Checksum algorithm constants.
const (
	// CRCFinalMask fills the upper half of the finalization word
	CRCFinalMask = 0xFFFF0000

	// CRCFinalDataMask selects the data byte folded into the finalization word
	CRCFinalDataMask = 0xFF00

	// BitsPerWord is the number of fold iterations per word
	BitsPerWord = 32
)
