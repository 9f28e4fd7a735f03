// Package rom loads multiboot ROM images from disk.
//
// Images must hold at least the 192-byte cartridge header and fit in the
// 256 KiB of work RAM. Loaded images are zero-padded to a 16-byte boundary,
// which the multiboot length encoding requires.
//
//	image, err := rom.Parse("game.mb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !image.HeaderValid() {
//	    log.Printf("header complement mismatch")
//	}
package rom
