// Package bootloader provides the second-stage transfer sequence for the
// multiboot link.
//
// # Overview
//
// The first-stage multiboot protocol is slow and limited in size. This
// package uses it once, to send a small second-stage loader, and then talks
// to that loader directly:
//   - Sending the second-stage loader through the primitive link
//   - Probing until the loader echoes 0xFA57B007 (16 attempts, 250ms apart)
//   - Announcing the payload size in words
//   - Streaming the payload as little-endian words
//   - Checking the final echoed word against the load address
//
// # Basic Usage
//
//	port, err := link.Open("/dev/ttyACM0", protocol.ModeNormal)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	loader := bootloader.New(port, bootloader.WithLoaderImage(loaderBin))
//	if err := loader.Transfer(context.Background(), image.Data); err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress Tracking
//
// Track transfer progress with a callback:
//
//	loader := bootloader.New(port,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Fprintf(os.Stderr, "\r[%s] %.0f%% %08x", p.Phase, p.Percentage, p.Word)
//	    }),
//	)
//
// # Configuration Options
//
//	loader := bootloader.New(port,
//	    bootloader.WithLoaderImage(loaderBin),
//	    bootloader.WithLogger(myLogger),
//	    bootloader.WithAckAttempts(16),
//	    bootloader.WithAckInterval(250*time.Millisecond),
//	    bootloader.WithStrictVerify(false),
//	)
//
// WithSleep replaces the wait between probes so tests run without real delays.
//
// # Error Handling
//
// Only two conditions abort the sequence on their own:
//   - ModeError: the link is not in normal mode; nothing is sent
//   - HandshakeTimeoutError: the loader never echoed the probe
//
// Transport errors from the Link are wrapped and returned unchanged
// otherwise. A mismatch of the final echoed word is logged but does not fail
// the transfer unless WithStrictVerify(true) is set, in which case a
// VerificationError is returned.
//
// # Hardware Independence
//
// This package does NOT implement the link. Any type satisfying Link can be
// used: the serial Port from the link package, or a simulated device in
// tests.
package bootloader
