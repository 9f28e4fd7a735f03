package rom

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/moffa90/go-gbaxfer/protocol"
)

// MinSize is the smallest accepted image: the 0xC0-byte cartridge header.
const MinSize = protocol.HeaderSize

var (
	// ErrTooSmall is returned for images shorter than the cartridge header.
	ErrTooSmall = errors.New("rom image too small")

	// ErrTooLarge is returned by CheckMultiboot for images that do not fit
	// in work RAM.
	ErrTooLarge = errors.New("rom image too large")
)

// Parse loads a ROM image from the given file path.
//
// Example:
//
//	image, err := rom.Parse("game.mb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s (%s), %d bytes\n", image.Title, image.GameCode, image.Size)
func Parse(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader loads a ROM image from any io.Reader. The image is padded with
// zeros to the next multiple of 16 bytes. There is no upper bound here: the
// second-stage loader accepts images larger than work RAM, so the first-stage
// limit is checked separately with CheckMultiboot.
func ParseReader(r io.Reader) (*ROM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	size := len(data)
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d bytes, minimum is %d", ErrTooSmall, size, MinSize)
	}

	padded := align(size)
	if padded > size {
		data = append(data, make([]byte, padded-size)...)
	}

	return &ROM{
		Data:           data,
		Size:           padded,
		FileSize:       size,
		Title:          field(data, TitleOffset, TitleLength),
		GameCode:       field(data, GameCodeOffset, GameCodeLength),
		MakerCode:      field(data, MakerCodeOffset, MakerCodeLength),
		HeaderChecksum: data[ChecksumOffset],
	}, nil
}

// align rounds size up to the multiboot alignment.
func align(size int) int {
	return (size + protocol.ROMAlignment - 1) &^ (protocol.ROMAlignment - 1)
}
