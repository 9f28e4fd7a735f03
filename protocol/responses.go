package protocol

// replyHigh returns the upper 16 bits of an exchanged word, where the remote
// places its reply in normal mode.
func replyHigh(reply uint32) uint16 {
	return uint16(reply >> 16)
}

// IsSlaveReady reports whether reply acknowledges CmdSlaveReady.
func IsSlaveReady(reply uint32) bool {
	return replyHigh(reply) == ReplySlaveReady
}

// ParseHandshakeReply extracts the client byte cc from a 73cc palette reply.
func ParseHandshakeReply(reply uint32) (byte, error) {
	if byte(reply>>24) != ReplyHandshake {
		return 0, &ProtocolError{
			Operation: "handshake",
			Reply:     reply,
			Reason:    "expected 73cc reply",
		}
	}
	return byte(reply >> 16), nil
}

// ParseLengthReply extracts the rr byte from the reply to the length command.
func ParseLengthReply(reply uint32) byte {
	return byte(reply >> 16)
}

// IsCRCReady reports whether reply acknowledges CmdCRCPoll.
func IsCRCReady(reply uint32) bool {
	return replyHigh(reply) == ReplyCRCReady
}

// ParseCRCReply extracts the checksum echoed by the remote.
func ParseCRCReply(reply uint32) uint16 {
	return replyHigh(reply)
}
