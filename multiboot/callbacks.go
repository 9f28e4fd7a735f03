package multiboot

// Progress reports how far the encrypted data phase has advanced.
type Progress struct {
	// Offset is the byte offset of the last word sent
	Offset int

	// Size is the total image size in bytes
	Size int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64
}

// ProgressCallback is called after every word of the data phase.
type ProgressCallback func(Progress)

// Logger is an optional logging interface, identical in shape to
// bootloader.Logger so one adapter serves both packages.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Exchanger moves single 32-bit words across the link. ReadWord returns the
// word clocked in by the most recent WriteWord.
type Exchanger interface {
	WriteWord(w uint32) error
	ReadWord() (uint32, error)
}
