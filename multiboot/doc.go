// Package multiboot sends an image to the remote device using the
// first-stage multiboot protocol in normal (32-bit) link mode.
//
// The exchange runs in five phases:
//   - poll until the remote reports it is waiting (72xx)
//   - send the 0xC0-byte header in clear, 16 bits per exchange
//   - palette/handshake: read the client byte cc, answer with 64hh
//   - send every following word masked by the keystream
//   - poll until the remote is ready, then send the transfer checksum
//
// The package works on any Exchanger, so the same code drives a serial
// adapter, a simulated remote in tests, or any other word-level transport:
//
//	err := multiboot.Send(ctx, port, protocol.ModeNormal, image.Data,
//	    multiboot.WithLogger(logger),
//	)
package multiboot
