// Package link carries 32-bit words between the host and the console over a
// serial adapter.
//
// The adapter is full duplex: each word written clocks one word back, and
// ReadWord returns that word. Port satisfies bootloader.Link, and SendBulk
// runs the first-stage multiboot exchange from the multiboot package over the
// same port.
//
//	port, err := link.Open("/dev/ttyACM0", protocol.ModeNormal,
//	    link.WithBaudRate(115200),
//	    link.WithReadTimeout(2*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
// Words travel big endian by default; WithByteOrder changes that for
// adapters that expect little-endian framing.
package link
