package rom

import (
	"fmt"

	"github.com/moffa90/go-gbaxfer/protocol"
)

// Cartridge header field offsets.
const (
	TitleOffset      = 0xA0
	TitleLength      = 12
	GameCodeOffset   = 0xAC
	GameCodeLength   = 4
	MakerCodeOffset  = 0xB0
	MakerCodeLength  = 2
	ChecksumOffset   = 0xBD
	complementStart  = 0xA0
	complementEnd    = 0xBC
	complementOffset = 0x19
)

// ROM is a loaded image, padded and ready for transfer.
type ROM struct {
	// Data is the padded image. len(Data) == Size.
	Data []byte

	// Size is the padded size in bytes (a multiple of 16)
	Size int

	// FileSize is the size read from disk before padding
	FileSize int

	// Title is the game title from the cartridge header, NULs trimmed
	Title string

	// GameCode is the four-character game code
	GameCode string

	// MakerCode is the two-character maker code
	MakerCode string

	// HeaderChecksum is the complement byte stored at 0xBD
	HeaderChecksum byte
}

// HeaderComplement computes the cartridge header complement over bytes
// 0xA0..0xBC. header must hold at least 0xBD bytes.
func HeaderComplement(header []byte) byte {
	var chk byte
	for _, b := range header[complementStart : complementEnd+1] {
		chk -= b
	}
	return chk - complementOffset
}

// HeaderValid reports whether the stored complement matches the header.
func (r *ROM) HeaderValid() bool {
	if len(r.Data) <= ChecksumOffset {
		return false
	}
	return HeaderComplement(r.Data) == r.HeaderChecksum
}

// CheckMultiboot reports whether the image can be sent with the first-stage
// multiboot protocol alone, which is limited to 256 KiB of work RAM.
func (r *ROM) CheckMultiboot() error {
	if r.Size > protocol.MaxROMSize {
		return fmt.Errorf("%w for multiboot: %d bytes, maximum is %d", ErrTooLarge, r.Size, protocol.MaxROMSize)
	}
	return nil
}

// Padding returns the number of zero bytes appended to reach alignment.
func (r *ROM) Padding() int {
	return r.Size - r.FileSize
}

func field(data []byte, offset, length int) string {
	b := data[offset : offset+length]
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == ' ') {
		end--
	}
	return string(b[:end])
}
